package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/codebattle/internal/config"
	"github.com/nfrund/codebattle/internal/handlers"
	"github.com/nfrund/codebattle/internal/middleware"
	"github.com/nfrund/codebattle/internal/module"
	"github.com/nfrund/codebattle/internal/pubsub"
	"github.com/nfrund/codebattle/internal/rendering"
	"github.com/nfrund/codebattle/internal/storage"
	"github.com/nfrund/codebattle/internal/topicmgr"
	"github.com/nfrund/codebattle/internal/websocket"
	"github.com/spf13/afero"
)

// Dependencies holds everything the server needs. All fields are required.
type Dependencies struct {
	Config     config.Provider
	Echo       *echo.Echo
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	TopicMgr   *topicmgr.Manager
	Bridge     *websocket.Bridge
	Static     afero.Fs
}

// Server holds the HTTP server and the core services shared by modules.
type Server struct {
	E          *echo.Echo
	Cfg        config.Provider
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	TopicMgr   *topicmgr.Manager
	Bridge     *websocket.Bridge

	static  *storage.AferoStore
	modules []module.Module
}

// New creates a new Server instance with the global middleware installed.
func New(deps Dependencies) (*Server, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	e := deps.Echo
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Renderer = deps.Renderer

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	store := sessions.NewCookieStore([]byte(deps.Config.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(middleware.Player)
	e.Use(middleware.Logger)

	setupErrorHandling(e)

	slog.Debug("Server created", "static_source", deps.Config.GetStaticSource())

	return &Server{
		E:          e,
		Cfg:        deps.Config,
		Publisher:  deps.Publisher,
		Subscriber: deps.Subscriber,
		Renderer:   deps.Renderer,
		TopicMgr:   deps.TopicMgr,
		Bridge:     deps.Bridge,
		static:     storage.NewAferoStore(deps.Static),
	}, nil
}

func (d Dependencies) validate() error {
	switch {
	case d.Config == nil:
		return errors.New("server: config is required")
	case d.Echo == nil:
		return errors.New("server: echo instance is required")
	case d.Publisher == nil || d.Subscriber == nil:
		return errors.New("server: pubsub is required")
	case d.Renderer == nil:
		return errors.New("server: renderer is required")
	case d.TopicMgr == nil:
		return errors.New("server: topic manager is required")
	case d.Bridge == nil:
		return errors.New("server: websocket bridge is required")
	case d.Static == nil:
		return errors.New("server: static filesystem is required")
	}
	return nil
}
