package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
)

// HealthEchoHandler answers liveness and readiness probes.
type HealthEchoHandler struct {
	archive domrepo.SeriesStore // optional
}

func NewHealthEchoHandler(archive domrepo.SeriesStore) *HealthEchoHandler {
	return &HealthEchoHandler{archive: archive}
}

func (h *HealthEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Live)
	e.GET("/readyz", h.Ready)
}

func (h *HealthEchoHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports degraded instead of failing when the optional candle
// archive is down; forecasts still work straight from the provider.
func (h *HealthEchoHandler) Ready(c echo.Context) error {
	deps := map[string]string{}
	if h.archive != nil {
		if err := h.archive.Health(c.Request().Context()); err != nil {
			deps["clickhouse"] = "down: " + err.Error()
			return c.JSON(http.StatusOK, map[string]interface{}{"status": "degraded", "deps": deps})
		}
		deps["clickhouse"] = "ok"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok", "deps": deps})
}
