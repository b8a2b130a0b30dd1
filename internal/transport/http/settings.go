package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"agri_trade/internal/lib/logger/sl"
	settingsservice "agri_trade/internal/services/settings_service"
	"agri_trade/internal/transport/http/dto"
	"agri_trade/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

type SettingsService interface {
	View(ctx context.Context) (settingsservice.SettingsView, error)
	UpdateSettings(ctx context.Context, enabled bool, provider string) (settingsservice.SettingsView, error)
}

// GetSettings godoc
// @Summary Настройки CDN
// @Tags settings
// @Produce json
// @Success 200 {object} settingsservice.SettingsView
// @Failure 500 {object} response.ErrorResponse
// @Router /api/settings [get]
func (r *Routers) GetSettings(c echo.Context) error {
	const op = "http.routers.GetSettings"

	view, err := r.SettingsService.View(c.Request().Context())
	if err != nil {
		r.log.Error("failed to fetch settings", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Upstream("Failed to fetch settings"))
	}

	return c.JSON(http.StatusOK, view)
}

// UpdateSettings godoc
// @Summary Изменить настройки CDN
// @Tags settings
// @Accept json
// @Produce json
// @Param request body dto.SettingsRequest true "Флаг и провайдер CDN"
// @Success 200 {object} dto.SettingsUpdateResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/settings [post]
func (r *Routers) UpdateSettings(c echo.Context) error {
	const op = "http.routers.UpdateSettings"

	var req dto.SettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	view, err := r.SettingsService.UpdateSettings(c.Request().Context(), req.CDNEnabled, req.CDNProvider)
	if err != nil {
		if errors.Is(err, settingsservice.ErrInvalidProvider) {
			return c.JSON(http.StatusBadRequest, response.Validation("Invalid CDN provider"))
		}
		r.log.Error("failed to update settings", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Upstream("Failed to update settings"))
	}

	return c.JSON(http.StatusOK, dto.SettingsUpdateResponse{Success: true, Settings: view})
}
