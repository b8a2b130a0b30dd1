package middleware

import (
	"context"
	"net/http"
	"strings"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/transport/http/dto/response"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	SessionIDKey      = "session_id"
	sessionContextKey = "admin_session"
)

type SessionVerifier interface {
	Verify(ctx context.Context, sessionID string) (models.Session, error)
	VerifyToken(ctx context.Context, token string) (models.Session, error)
}

// RequireSession пропускает запрос только с живой сессией: cookie или Authorization: Bearer
func RequireSession(verifier SessionVerifier, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if token, ok := bearerToken(c.Request()); ok {
				s, err := verifier.VerifyToken(ctx, token)
				if err != nil {
					return unauthorized(c)
				}
				c.Set(sessionContextKey, s)
				return next(c)
			}

			sess, err := session.Get(cookieName, c)
			if err != nil {
				return unauthorized(c)
			}

			id, _ := sess.Values[SessionIDKey].(string)
			if id == "" {
				return unauthorized(c)
			}

			s, err := verifier.Verify(ctx, id)
			if err != nil {
				return unauthorized(c)
			}

			c.Set(sessionContextKey, s)
			return next(c)
		}
	}
}

// SessionFromContext сессия, положенная RequireSession
func SessionFromContext(c echo.Context) (models.Session, bool) {
	s, ok := c.Get(sessionContextKey).(models.Session)
	return s, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(h[7:])
	return token, token != ""
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
}
