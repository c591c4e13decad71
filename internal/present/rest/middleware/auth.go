package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
	"github.com/KevinOrellana26/acme-dashboard/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// RequireSession gates every route outside the exclusion set behind a
// valid session cookie. On success the session user id is placed in
// the request context; otherwise the client is sent to the login page.
func (m *AuthMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		if excluded(path) {
			return next(c)
		}

		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireSession")
		defer span.End()

		cookie, err := c.Cookie(domain.SessionCookieName)
		if err != nil || cookie.Value == "" {
			return c.Redirect(http.StatusSeeOther, domain.LoginPath)
		}

		userID, err := m.auth.ParseSession(cookie.Value)
		if err != nil {
			span.RecordError(errors.Wrap(err, "AuthMiddleware.RequireSession: session parse failed"))
			return c.Redirect(http.StatusSeeOther, domain.LoginPath)
		}

		ctx = context.WithValue(ctx, domain.SessionUserCtxKey, userID)
		span.SetAttributes(attribute.String("SessionUser", userID))

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// excluded mirrors the routing matcher of the dashboard: api routes,
// static and image assets, png files and the login page itself pass
// without a session.
func excluded(path string) bool {
	if path == domain.LoginPath {
		return true
	}
	if strings.HasPrefix(path, "/api/") || path == "/api" {
		return true
	}
	if strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, "/assets/") {
		return true
	}
	if strings.HasSuffix(path, ".png") {
		return true
	}
	return false
}
