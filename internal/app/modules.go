package app

import (
	"log/slog"

	"github.com/nfrund/codebattle/internal/config"
	"github.com/nfrund/codebattle/internal/module"
	"github.com/nfrund/codebattle/internal/modules/codebattle"
	"github.com/nfrund/codebattle/internal/presence"
	"github.com/nfrund/codebattle/internal/pubsub"
	"github.com/nfrund/codebattle/internal/rendering"
	"github.com/nfrund/codebattle/internal/websocket"
)

// Dependencies holds the core services that are required by the application's modules.
// This struct is passed from the main application entrypoint to wire up the modules.
type Dependencies struct {
	Config     config.Provider
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	Bridge     *websocket.Bridge
	Presence   *presence.Service
	Logger     *slog.Logger
}

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		codebattle.New(codebattle.Dependencies{
			Publisher:  deps.Publisher,
			Subscriber: deps.Subscriber,
			Renderer:   deps.Renderer,
			Bridge:     deps.Bridge,
			Arena: codebattle.ArenaConfig{
				AutoAdvance: deps.Config.GetAutoAdvance(),
				Delays:      deps.Config.GetDelays(),
				IdleTTL:     deps.Config.GetMatchIdleTTL(),
				Logger:      deps.Logger,
				Online:      deps.Presence.IsOnline,
			},
		}),
	}
}
