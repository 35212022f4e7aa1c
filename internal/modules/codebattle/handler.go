package codebattle

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/codebattle/internal/battle"
	"github.com/nfrund/codebattle/internal/handlers"
	"github.com/nfrund/codebattle/internal/middleware"
	"github.com/nfrund/codebattle/internal/modules/codebattle/components"
	"github.com/nfrund/codebattle/internal/modules/codebattle/events"
	"github.com/nfrund/codebattle/internal/rendering"
	"github.com/nfrund/codebattle/internal/view"
)

// AttackRequest is the input of POST /game/attack/:index.
type AttackRequest struct {
	Index int `param:"index" validate:"min=0,max=3"`
}

// Handler serves the game page and player input.
type Handler struct {
	arena    *Arena
	renderer rendering.Renderer
}

// NewHandler creates the module's HTTP handler.
func NewHandler(arena *Arena, renderer rendering.Renderer) *Handler {
	return &Handler{arena: arena, renderer: renderer}
}

func (h *Handler) match(c echo.Context) (*Match, error) {
	id, ok := middleware.PlayerID(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "No player session.")
	}
	return h.arena.Get(id), nil
}

// Page renders the full game page.
func (h *Handler) Page(c echo.Context) error {
	m, err := h.match(c)
	if err != nil {
		return err
	}
	v, err := m.View(c.Request().Context())
	if err != nil {
		return fmt.Errorf("load match view: %w", err)
	}

	page := view.BaseLayout(view.Page{
		WebSocketPath: "/ws/html",
		Body:          components.Page(v, view.GetFlashData(c)),
	})
	return h.renderer.RenderPage(c, http.StatusOK, page)
}

// State returns the match as JSON.
func (h *Handler) State(c echo.Context) error {
	m, err := h.match(c)
	if err != nil {
		return err
	}
	v, err := m.View(c.Request().Context())
	if err != nil {
		return fmt.Errorf("load match view: %w", err)
	}
	return c.JSON(http.StatusOK, screenOf(v))
}

// Attack submits one of the player's attacks.
func (h *Handler) Attack(c echo.Context) error {
	var req AttackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid attack.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.match(c)
	if err != nil {
		return err
	}
	return h.respond(c, m, m.Attack(c.Request().Context(), req.Index))
}

// Next starts the next level after a win.
func (h *Handler) Next(c echo.Context) error {
	m, err := h.match(c)
	if err != nil {
		return err
	}
	return h.respond(c, m, m.NextLevel(c.Request().Context()))
}

// Restart starts a new game from level 1.
func (h *Handler) Restart(c echo.Context) error {
	m, err := h.match(c)
	if err != nil {
		return err
	}
	err = m.Restart(c.Request().Context())
	if err == nil && !handlers.IsHTMX(c) && !handlers.WantsJSON(c) {
		view.SetFlashSuccess(c, "New game started. Good luck!")
	}
	return h.respond(c, m, err)
}

// respond answers an input request. htmx clients get an empty response and
// see the result over the websocket; JSON clients get the new state; plain
// form posts are redirected back to the page. Out-of-turn input is a 409 for
// programmatic clients and a flash notice for form posts.
func (h *Handler) respond(c echo.Context, m *Match, err error) error {
	logger := middleware.FromContext(c.Request().Context())

	switch {
	case err == nil:
	case errors.Is(err, battle.ErrInvalidTurnAction):
		logger.Debug("Ignored out-of-turn input", "path", c.Path(), "error", err)
		switch {
		case handlers.IsHTMX(c):
			return c.NoContent(http.StatusConflict)
		case handlers.WantsJSON(c):
			return c.JSON(http.StatusConflict, handlers.ErrorResponse{
				Code:    "invalid_turn",
				Message: "That action is not available right now.",
			})
		default:
			view.SetFlashError(c, "That action is not available right now.")
			return c.Redirect(http.StatusSeeOther, "/")
		}
	default:
		return fmt.Errorf("codebattle input: %w", err)
	}

	switch {
	case handlers.IsHTMX(c):
		return c.NoContent(http.StatusNoContent)
	case handlers.WantsJSON(c):
		v, err := m.View(c.Request().Context())
		if err != nil {
			return fmt.Errorf("load match view: %w", err)
		}
		return c.JSON(http.StatusOK, screenOf(v))
	default:
		return c.Redirect(http.StatusSeeOther, "/")
	}
}

func screenOf(v components.ArenaView) events.Screen {
	return events.Screen{Screen: v.Screen, AutoAdvance: v.AutoAdvance, Snapshot: v.Snapshot}
}
