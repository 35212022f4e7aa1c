package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// PlayerContextKey is the echo context key holding the player ID.
	PlayerContextKey = "player_id"

	playerSessionName = "codebattle"
	playerSessionKey  = "player_id"
)

// Player makes sure every visitor has a stable player ID stored in a cookie
// session. A new ID is issued on the first request. It must run after the
// echo-contrib session middleware.
func Player(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(playerSessionName, c)
		if err != nil {
			// An undecodable cookie (rotated secret) yields a fresh session.
			slog.Debug("Discarding unreadable player session", "error", err)
		}
		if sess == nil {
			return c.String(http.StatusInternalServerError, "session unavailable")
		}

		id, _ := sess.Values[playerSessionKey].(string)
		if id == "" {
			id = uuid.NewString()
			sess.Values[playerSessionKey] = id
			sess.Options = &sessions.Options{
				Path:     "/",
				MaxAge:   86400 * 7,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			}
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				return err
			}
		}

		c.Set(PlayerContextKey, id)
		return next(c)
	}
}

// PlayerID returns the player ID set by the Player middleware.
func PlayerID(c echo.Context) (string, bool) {
	id, ok := c.Get(PlayerContextKey).(string)
	return id, ok && id != ""
}
