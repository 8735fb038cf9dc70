// Package handler is the HTTP layer between the router and the services.
//
// Each endpoint declares a request type that binds its own path, query,
// cookie and body inputs and validates them; the shared pipeline in
// base.go runs binding and validation, calls the service and writes the
// response.
package handler

import (
	"github.com/deppfellow/item-api/internal/server"
	"github.com/deppfellow/item-api/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one container.
type Handlers struct {
	Item    *ItemHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Item:    NewItemHandler(s, services.Item),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
