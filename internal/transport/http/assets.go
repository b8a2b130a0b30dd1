package http

import (
	"context"
	"net/http"

	"agri_trade/internal/transport/http/dto"
	"agri_trade/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

type AssetResolver interface {
	Resolve(ctx context.Context, path string) string
}

// ResolveAsset godoc
// @Summary Адрес статического ассета
// @Description CDN из настроек, затем базовый URL из конфига, иначе относительный путь
// @Tags assets
// @Produce json
// @Param path query string true "Путь ассета, например /metal/1.jpg"
// @Success 200 {object} dto.AssetResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/assets/resolve [get]
func (r *Routers) ResolveAsset(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return c.JSON(http.StatusBadRequest, response.Validation("path is required"))
	}

	return c.JSON(http.StatusOK, dto.AssetResponse{URL: r.AssetResolver.Resolve(c.Request().Context(), path)})
}
