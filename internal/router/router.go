// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API routes, mapping each
// path to its handler and documenting it in the OpenAPI generator.
package router

import (
	"github.com/deppfellow/item-api/internal/handler"
	"github.com/deppfellow/item-api/internal/middleware"
	"github.com/deppfellow/item-api/internal/openapi"
	"github.com/deppfellow/item-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with every middleware and route.
//
// Middleware order matters: the request id and the New Relic transaction
// must exist before the request logger is built, and the logger must
// exist before the access log line is written.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Runs before routing so "/items/filter/" matches "/items/filter".
	router.Pre(middlewares.Global.RemoveTrailingSlash())

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Session.ReadSession,
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	docs := h.OpenAPI.Generator()

	registerSystemRoutes(router, h, s, docs)
	registerItemRoutes(router, h, s, docs)

	return router
}

// add registers a route and documents it.
func add(r *echo.Echo, docs *openapi.Generator, method, path string, h echo.HandlerFunc, op openapi.Operation) {
	r.Add(method, path, h)
	docs.Add(method, path, op)
}

var (
	itemIDParam = openapi.Param{Name: "item_id", In: "path", Kind: openapi.ParamItemID, Required: true}
	qParam      = openapi.Param{Name: "q", In: "query", Kind: openapi.ParamQuery}
)
