package server

import (
	"github.com/nfrund/codebattle/internal/handlers"
	"github.com/nfrund/codebattle/internal/websocket"
)

// RegisterRoutes sets up the routes that do not belong to a module.
func (s *Server) RegisterRoutes() {
	s.E.GET("/health", handlers.Health)

	ws := s.E.Group("/ws")
	ws.GET("/html", s.Bridge.Handler(websocket.ConnectionTypeHTML))
	ws.GET("/data", s.Bridge.Handler(websocket.ConnectionTypeData))

	s.E.StaticFS("/static", s.static.FS())
}
