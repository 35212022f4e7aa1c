package module

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/codebattle/internal/registry"
)

// Module is a self-contained application feature. The server calls Register
// on every module before booting any of them, and shuts them down in reverse
// order.
type Module interface {
	// Name identifies the module in logs and the topic catalog.
	Name() string

	// Register publishes the module's services to reg. Other modules may
	// look them up during Boot.
	Register(reg *registry.Registry) error

	// Boot mounts routes on router and starts background work, which must
	// stop when ctx is canceled.
	Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error

	// Shutdown releases what Boot acquired.
	Shutdown(ctx context.Context) error
}
