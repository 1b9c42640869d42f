package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	xhttp "MarketPulse/pkg/http"
)

// HealthCheck probes one infrastructure dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthEchoHandler reports liveness and dependency readiness.
type HealthEchoHandler struct {
	checks []HealthCheck
}

func NewHealthEchoHandler(checks ...HealthCheck) *HealthEchoHandler {
	return &HealthEchoHandler{checks: checks}
}

func (h *HealthEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}

func (h *HealthEchoHandler) Healthz(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Readyz runs every registered dependency probe with a short deadline.
// Any failure turns the response into a 503 with per-check detail.
func (h *HealthEchoHandler) Readyz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for _, chk := range h.checks {
		if err := chk.Check(ctx); err != nil {
			status[chk.Name] = err.Error()
			healthy = false
			continue
		}
		status[chk.Name] = "ok"
	}

	if !healthy {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
	}
	return xhttp.SuccessResponse(c, status)
}
