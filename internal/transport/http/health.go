package http

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"agri_trade/internal/lib/logger/sl"
	"agri_trade/internal/transport/http/dto"

	"github.com/labstack/echo/v4"
)

type HealthCheckFunc func(ctx context.Context) error

const healthTimeout = 3 * time.Second

// Health godoc
// @Summary Проверка зависимостей
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/health [get]
func (r *Routers) Health(c echo.Context) error {
	const op = "http.routers.Health"

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(r.HealthChecks))
	for name := range r.HealthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := dto.HealthResponse{Status: "ok", Dependencies: make(map[string]string, len(names))}
	status := http.StatusOK

	for _, name := range names {
		if err := r.HealthChecks[name](ctx); err != nil {
			r.log.Warn("dependency unhealthy", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			resp.Dependencies[name] = "down"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[name] = "ok"
	}

	return c.JSON(status, resp)
}
