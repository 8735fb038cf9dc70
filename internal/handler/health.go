package handler

import (
	"time"

	"github.com/deppfellow/item-api/internal/server"
	"github.com/labstack/echo/v4"
)

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Version     string    `json:"version"`
	Uptime      string    `json:"uptime"`
}

// HealthHandler exposes the status endpoint used by load balancers and
// uptime monitors. The service has no dependencies to probe, so it is
// healthy whenever it answers.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context, req *emptyRequest) (StatusResponse, error) {
	now := time.Now()

	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomMetric("Custom/Health/UptimeSeconds", now.Sub(h.server.StartedAt).Seconds())
	}

	return StatusResponse{
		Status:      "healthy",
		Timestamp:   now.UTC(),
		Environment: h.server.Config.Primary.Env,
		Version:     h.server.Config.Primary.Version,
		Uptime:      now.Sub(h.server.StartedAt).Round(time.Second).String(),
	}, nil
}
