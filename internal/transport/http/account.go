package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/lib/logger/sl"
	accountservice "agri_trade/internal/services/account_service"
	"agri_trade/internal/transport/http/dto"
	"agri_trade/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

type AccountService interface {
	ListAccounts(ctx context.Context) ([]models.Admin, error)
	CreateAccount(ctx context.Context, email, password string) error
	UpdatePassword(ctx context.Context, email, password string) error
	DeleteAccount(ctx context.Context, email string) error
}

// ListAccounts godoc
// @Summary Список админов
// @Tags account
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/account [get]
func (r *Routers) ListAccounts(c echo.Context) error {
	const op = "http.routers.ListAccounts"

	admins, err := r.AccountService.ListAccounts(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list accounts", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Upstream("Failed to fetch accounts"))
	}

	out := make([]dto.AccountResponse, 0, len(admins))
	for _, a := range admins {
		out = append(out, dto.AccountResponse{ID: a.ID, Email: a.Email})
	}

	return c.JSON(http.StatusOK, out)
}

// CreateAccount godoc
// @Summary Создать админа
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.AccountRequest true "Email и пароль"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/account [post]
func (r *Routers) CreateAccount(c echo.Context) error {
	const op = "http.routers.CreateAccount"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.AccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.Validation(err.Error()))
	}

	if err := r.AccountService.CreateAccount(c.Request().Context(), req.Email, req.Password); err != nil {
		return r.accountError(c, log, err, "Failed to create account")
	}

	return c.JSON(http.StatusCreated, response.MessageResponse("Account created successfully"))
}

// UpdateAccount godoc
// @Summary Сменить пароль админа
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.AccountRequest true "Email и новый пароль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/account [patch]
func (r *Routers) UpdateAccount(c echo.Context) error {
	const op = "http.routers.UpdateAccount"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.AccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Validation(err.Error()))
	}

	if err := r.AccountService.UpdatePassword(c.Request().Context(), req.Email, req.Password); err != nil {
		return r.accountError(c, log, err, "Failed to update account")
	}

	return c.JSON(http.StatusOK, response.MessageResponse("Account updated successfully"))
}

// DeleteAccount godoc
// @Summary Удалить админа
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.DeleteAccountRequest true "Email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/account [delete]
func (r *Routers) DeleteAccount(c echo.Context) error {
	const op = "http.routers.DeleteAccount"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.DeleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Validation(err.Error()))
	}

	if err := r.AccountService.DeleteAccount(c.Request().Context(), req.Email); err != nil {
		return r.accountError(c, log, err, "Failed to delete account")
	}

	return c.JSON(http.StatusOK, response.MessageResponse("Account deleted successfully"))
}

func (r *Routers) accountError(c echo.Context, log *slog.Logger, err error, upstreamMessage string) error {
	switch {
	case errors.Is(err, accountservice.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, response.Validation(validationDetails(err, accountservice.ErrInvalidInput)))
	case errors.Is(err, accountservice.ErrAccountExists):
		return c.JSON(http.StatusConflict, response.ErrAccountExists)
	case errors.Is(err, accountservice.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, response.ErrAccountNotFound)
	default:
		log.Error("account operation failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Upstream(upstreamMessage))
	}
}
