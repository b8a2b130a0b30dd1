package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/lib/logger/sl"
	"agri_trade/internal/middleware"
	sessionservice "agri_trade/internal/services/session_service"
	"agri_trade/internal/transport/http/dto"
	"agri_trade/internal/transport/http/dto/response"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

type SessionService interface {
	Login(ctx context.Context, email, password string) (models.Session, models.SessionToken, error)
	Logout(ctx context.Context, sessionID string) error
}

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Login godoc
// @Summary Вход админа
// @Description Проверяет email и пароль, открывает сессию (cookie) и возвращает bearer токен
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Response{data=dto.LoginResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/auth/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", slog.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, response.Validation(err.Error()))
	}

	s, token, err := r.SessionService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, sessionservice.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}
		log.Error("login failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Upstream("Failed to login"))
	}

	if err := r.writeSessionCookie(c, s.ID, int(r.Cookie.TTL.Seconds())); err != nil {
		log.Error("failed to save cookie session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Upstream("Failed to login"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.LoginResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		Email:       s.Email,
	}))
}

// Logout godoc
// @Summary Выход админа
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	s, ok := middleware.SessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
	}

	if err := r.SessionService.Logout(c.Request().Context(), s.ID); err != nil {
		r.log.Error("logout failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Upstream("Failed to logout"))
	}

	if err := r.writeSessionCookie(c, "", -1); err != nil {
		r.log.Warn("failed to clear cookie session", slog.String("op", op), sl.Err(err))
	}

	return c.JSON(http.StatusOK, response.MessageResponse("Logged out"))
}

// CurrentSession godoc
// @Summary Текущая сессия
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth/session [get]
func (r *Routers) CurrentSession(c echo.Context) error {
	s, ok := middleware.SessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
	}

	return c.JSON(http.StatusOK, dto.SessionResponse{ID: s.AdminID, Email: s.Email})
}

func (r *Routers) writeSessionCookie(c echo.Context, sessionID string, maxAge int) error {
	sess, err := session.Get(r.Cookie.Name, c)
	if err != nil {
		return err
	}

	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	if sessionID == "" {
		delete(sess.Values, middleware.SessionIDKey)
	} else {
		sess.Values[middleware.SessionIDKey] = sessionID
	}

	return sess.Save(c.Request(), c.Response())
}
