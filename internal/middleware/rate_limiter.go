package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// denyMessage is returned when a player sends commands faster than the limit.
const denyMessage = "Too many commands. Wait for the battle to catch up."

// RateLimiter limits game input to 10 commands per second per player, with a
// burst of 10. Players are keyed by their session identity, so players sharing
// an address do not throttle each other. Requests without a player identity
// fall back to the client IP.
func RateLimiter() echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(10),

		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id, ok := PlayerID(c); ok {
				return "player:" + id, nil
			}
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.String(http.StatusTooManyRequests, denyMessage)
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
