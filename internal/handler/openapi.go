package handler

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/deppfellow/item-api/internal/openapi"
	"github.com/deppfellow/item-api/internal/server"
	"github.com/labstack/echo/v4"
)

//go:embed static/openapi.html
var openAPIUI string

// OpenAPIHandler serves the generated OpenAPI document and the docs UI
// that renders it.
type OpenAPIHandler struct {
	Handler
	generator *openapi.Generator
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		generator: openapi.NewGenerator(s.Config.Schema,
			openapi.WithVersion(s.Config.Primary.Version),
		),
	}
}

// Generator is where routes are documented as they are registered.
func (h *OpenAPIHandler) Generator() *openapi.Generator {
	return h.generator
}

func (h *OpenAPIHandler) ServeJSON(c echo.Context, req *emptyRequest) ([]byte, error) {
	return h.generator.JSON()
}

func (h *OpenAPIHandler) ServeYAML(c echo.Context, req *emptyRequest) ([]byte, error) {
	return h.generator.YAML()
}

// ServeOpenAPIUI serves the docs page. Cache-Control is set to "no-cache"
// so clients do not reuse an old page.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")

	if err := c.HTML(http.StatusOK, openAPIUI); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
