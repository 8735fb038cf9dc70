package router

import (
	"net/http"

	"github.com/deppfellow/item-api/internal/handler"
	"github.com/deppfellow/item-api/internal/openapi"
	"github.com/deppfellow/item-api/internal/server"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// registerSystemRoutes registers endpoints that are not part of the item API:
// the status probe, the OpenAPI document and the docs UI.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, s *server.Server, docs *openapi.Generator) {
	health := s.Config.Observability.HealthChecks
	if health.Enabled {
		r.GET("/status", handler.Handle(h.Health.Handler, h.Health.CheckHealth, http.StatusOK),
			echomw.ContextTimeout(health.Timeout))
		docs.Add(http.MethodGet, "/status", openapi.Operation{
			Summary:  "Service status",
			Tags:     []string{"system"},
			Response: handler.StatusResponse{},
		})
	}

	r.GET("/openapi.json", handler.HandleBlob(h.OpenAPI.Handler, h.OpenAPI.ServeJSON, http.StatusOK, echo.MIMEApplicationJSON))
	r.GET("/openapi.yaml", handler.HandleBlob(h.OpenAPI.Handler, h.OpenAPI.ServeYAML, http.StatusOK, "application/yaml"))

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
