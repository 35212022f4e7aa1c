package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/codebattle/internal/module"
	"github.com/nfrund/codebattle/internal/registry"
)

// InitModules publishes the core services to reg, then registers and boots
// every module. Modules mount their routes at the root.
func (s *Server) InitModules(ctx context.Context, modules []module.Module, reg *registry.Registry) error {
	registry.Set(reg, registry.PublisherKey, s.Publisher)
	registry.Set(reg, registry.SubscriberKey, s.Subscriber)
	registry.Set(reg, registry.RendererKey, s.Renderer)
	registry.Set(reg, registry.TopicManagerKey, s.TopicMgr)
	registry.Set(reg, registry.BridgeKey, s.Bridge)
	slog.Debug("Core services registered", "keys", reg.Keys())

	for _, m := range modules {
		slog.Info("Registering module", "module", m.Name())
		if err := m.Register(reg); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}

	slog.Info("Modules registered", "count", len(modules), "services", len(reg.Keys()))

	root := s.E.Group("")
	for _, m := range modules {
		slog.Info("Booting module", "module", m.Name())
		if err := m.Boot(ctx, root, reg); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
	}

	s.modules = modules
	return nil
}

// ShutdownModules shuts modules down in reverse boot order.
func (s *Server) ShutdownModules(ctx context.Context) {
	for i := len(s.modules) - 1; i >= 0; i-- {
		m := s.modules[i]
		if err := m.Shutdown(ctx); err != nil {
			slog.Error("Module shutdown failed", "module", m.Name(), "error", err)
		}
	}
}
