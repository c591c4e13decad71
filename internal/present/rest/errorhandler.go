package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
)

// NewHTTPErrorHandler is the fallback boundary for failures nothing
// downstream recovered. Each activation logs the error with a fresh
// digest identifier and answers with a static message plus a retry
// target, so the client can re-invoke the affected view without a full
// reload.
func NewHTTPErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if httpErr, ok := err.(*echo.HTTPError); ok {
			e.DefaultHTTPErrorHandler(httpErr, c)
			return
		}

		digest := uuid.NewString()

		trace.SpanFromContext(c.Request().Context()).RecordError(err)

		slog.ErrorContext(
			c.Request().Context(), "Unhandled error",
			slog.String("error", err.Error()),
			slog.String("digest", digest),
			slog.String("path", c.Request().URL.Path),
			slog.String("module", "boundary"),
		)

		if c.Response().Committed {
			return
		}

		_ = c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Something went wrong!",
			"digest":  digest,
			"retry":   c.Request().URL.Path,
		})
	}
}
