package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/codebattle/internal/config"
	"github.com/nfrund/codebattle/internal/middleware"
	"github.com/nfrund/codebattle/internal/module"
	"github.com/nfrund/codebattle/internal/modules/codebattle/topics"
	"github.com/nfrund/codebattle/internal/presence"
	"github.com/nfrund/codebattle/internal/pubsub"
	"github.com/nfrund/codebattle/internal/registry"
	"github.com/nfrund/codebattle/internal/rendering"
	"github.com/nfrund/codebattle/internal/server"
	"github.com/nfrund/codebattle/internal/storage"
	"github.com/nfrund/codebattle/internal/topicmgr"
	"github.com/nfrund/codebattle/internal/websocket"
	"github.com/nfrund/codebattle/web"
	"github.com/spf13/afero"
)

// App is a fully wired server ready to start.
type App struct {
	Server   *server.Server
	Registry *registry.Registry
	Modules  []module.Module
	Bus      *pubsub.WatermillBridge
	Presence *presence.Service
}

// New wires the core services, the server and every module. Background work
// started by modules stops when ctx is canceled.
func New(ctx context.Context, cfg config.Provider, static afero.Fs, logger *slog.Logger) (*App, error) {
	bus := pubsub.NewWatermillBridge()

	topicMgr := topicmgr.Default()
	if err := websocket.RegisterTopicsWithManager(topicMgr); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("register websocket topics: %w", err)
	}

	bridge := websocket.NewBridge(websocket.BridgeDependencies{
		Publisher:    bus,
		Identify:     middleware.PlayerID,
		CommandTopic: topics.TopicCommand.Name(),
		Whitelist:    websocket.NewClientWhitelist(),
	})

	renderer := rendering.NewUniversalRenderer()

	tracker := presence.NewService(presence.WithLogger(logger))
	if err := tracker.Start(ctx, bus); err != nil {
		_ = bus.Close()
		return nil, err
	}

	s, err := server.New(server.Dependencies{
		Config:     cfg,
		Echo:       echo.New(),
		Publisher:  bus,
		Subscriber: bus,
		Renderer:   renderer,
		TopicMgr:   topicMgr,
		Bridge:     bridge,
		Static:     static,
	})
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	s.RegisterRoutes()

	modules := NewModules(Dependencies{
		Config:     cfg,
		Publisher:  bus,
		Subscriber: bus,
		Renderer:   renderer,
		Bridge:     bridge,
		Presence:   tracker,
		Logger:     logger,
	})

	reg := registry.New(cfg)
	if err := s.InitModules(ctx, modules, reg); err != nil {
		_ = bus.Close()
		return nil, err
	}

	return &App{Server: s, Registry: reg, Modules: modules, Bus: bus, Presence: tracker}, nil
}

// Run serves until ctx is canceled or a termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	defer a.Bus.Close()
	defer a.Presence.Close()
	return a.Server.Start(ctx)
}

// staticDiskRoot is where APP_STATIC=disk reads assets, relative to the
// working directory.
const staticDiskRoot = "web/static"

// Serve builds the application from cfg and runs it until ctx is canceled or
// the process is asked to stop.
func Serve(ctx context.Context, cfg config.Provider, logger *slog.Logger) error {
	static, err := storage.NewStaticFs(cfg.GetStaticSource(), web.FS, staticDiskRoot)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := New(ctx, cfg, static, logger)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
