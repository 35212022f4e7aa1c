package codebattle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/codebattle/internal/middleware"
	"github.com/nfrund/codebattle/internal/module"
	"github.com/nfrund/codebattle/internal/modules/codebattle/events"
	"github.com/nfrund/codebattle/internal/pubsub"
	"github.com/nfrund/codebattle/internal/registry"
	"github.com/nfrund/codebattle/internal/rendering"
	"github.com/nfrund/codebattle/internal/websocket"
)

var _ module.Module = (*CodeBattleModule)(nil)

// KeyArena is the type-safe key for accessing the arena service.
var KeyArena = registry.Key[*Arena]("codebattle.Arena")

// Bridge is the part of the websocket bridge the module uses.
type Bridge interface {
	Sender
	AllowAction(action string) error
}

// Dependencies holds what the module needs from the application.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	Bridge     Bridge
	Arena      ArenaConfig
}

// CodeBattleModule wires the battle engine to the web.
type CodeBattleModule struct {
	deps  Dependencies
	arena *Arena
}

// New creates the module.
func New(deps Dependencies) *CodeBattleModule {
	deps.Arena.Publisher = deps.Publisher
	return &CodeBattleModule{deps: deps}
}

func (m *CodeBattleModule) Name() string {
	return "codebattle"
}

// Arena returns the module's arena once Register has run.
func (m *CodeBattleModule) Arena() *Arena {
	return m.arena
}

func (m *CodeBattleModule) Register(reg *registry.Registry) error {
	slog.Info("Initializing codebattle arena",
		"auto_advance", m.deps.Arena.AutoAdvance,
		"idle_ttl", m.deps.Arena.IdleTTL,
	)
	m.arena = NewArena(m.deps.Arena)
	registry.Set(reg, KeyArena, m.arena)
	return nil
}

func (m *CodeBattleModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	for _, action := range []string{events.ActionAttack, events.ActionNext, events.ActionRestart} {
		if err := m.deps.Bridge.AllowAction(action); err != nil && !errors.Is(err, websocket.ErrActionAlreadyExists) {
			return fmt.Errorf("allow websocket action %q: %w", action, err)
		}
	}

	sub := NewSubscriber(m.deps.Subscriber, m.deps.Bridge, m.deps.Renderer, m.arena)
	if err := sub.Start(ctx); err != nil {
		return err
	}
	go m.arena.RunJanitor(ctx)

	h := NewHandler(m.arena, m.deps.Renderer)
	g.GET("/", h.Page)

	game := g.Group("/game")
	limiter := middleware.RateLimiter()
	game.GET("/state", h.State)
	game.POST("/attack/:index", h.Attack, limiter)
	game.POST("/next", h.Next, limiter)
	game.POST("/restart", h.Restart, limiter)
	return nil
}

func (m *CodeBattleModule) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down CodeBattleModule...")
	if m.arena != nil {
		m.arena.Close()
	}
	return nil
}

