package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/nfrund/codebattle/internal/app"
	"github.com/nfrund/codebattle/internal/config"
	"github.com/nfrund/codebattle/internal/logging"
)

// AppStatic can be set at build time to force a static asset source.
// Example: go build -ldflags "-X 'main.AppStatic=disk'"
var AppStatic string

func main() {
	if AppStatic != "" {
		os.Setenv("APP_STATIC", AppStatic)
	}

	cfg, err := config.New()
	if err != nil {
		// slog is not configured yet.
		log.Fatalf("Invalid configuration: %v", err)
	}
	logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

	if err := app.Serve(context.Background(), cfg, slog.Default()); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
