package server

import (
	"errors"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/codebattle/internal/middleware"
)

// setupErrorHandling logs errors that no handler turned into an HTTP error,
// with a stack trace, before echo writes the response.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			logger := middleware.FromContext(c.Request().Context())
			logger.Error("Internal Server Error (Unhandled)",
				"error", err,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
