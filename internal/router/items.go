package router

import (
	"net/http"

	"github.com/deppfellow/item-api/internal/handler"
	"github.com/deppfellow/item-api/internal/model"
	"github.com/deppfellow/item-api/internal/openapi"
	"github.com/deppfellow/item-api/internal/server"
	"github.com/deppfellow/item-api/internal/service"
	"github.com/labstack/echo/v4"
)

// registerItemRoutes registers the validating echo endpoints.
//
// Paths are registered without a trailing slash; the Pre middleware strips
// it from incoming requests. Offers and users are also reachable outside
// the /items prefix.
func registerItemRoutes(r *echo.Echo, h *handler.Handlers, s *server.Server, docs *openapi.Generator) {
	items := h.Item
	base := items.Handler

	add(r, docs, http.MethodGet, "/", handler.Handle(base, items.Root, http.StatusOK), openapi.Operation{
		Summary:  "Root probe",
		Tags:     []string{"system"},
		Response: service.Greeting{},
	})
	// Load balancers probe with HEAD; the body is dropped by net/http.
	r.HEAD("/", handler.Handle(base, items.Root, http.StatusOK))

	add(r, docs, http.MethodGet, "/items/:item_id", handler.Handle(base, items.ReadItem, http.StatusOK), openapi.Operation{
		Summary: "Read an item",
		Tags:    []string{"items"},
		Params: []openapi.Param{
			itemIDParam,
			qParam,
			{Name: "sort_order", In: "query", Kind: openapi.ParamString, Default: s.Config.Schema.SortOrder},
		},
		Response:  model.ReadItemResult{},
		Validated: true,
	})

	add(r, docs, http.MethodPut, "/items/:item_id", handler.Handle(base, items.UpdateItem, http.StatusOK), openapi.Operation{
		Summary:   "Update an item",
		Tags:      []string{"items"},
		Params:    []openapi.Param{itemIDParam, qParam},
		Body:      model.Item{},
		Response:  model.UpdateItemResult{},
		Validated: true,
	})

	add(r, docs, http.MethodPost, "/items/filter", handler.Handle(base, items.FilterItems, http.StatusOK), openapi.Operation{
		Summary: "Filter items",
		Tags:    []string{"items"},
		Params: []openapi.Param{
			{Name: "min_price", In: "query", Kind: openapi.ParamDecimal},
			{Name: "max_price", In: "query", Kind: openapi.ParamDecimal},
			{Name: "tax_included", In: "query", Kind: openapi.ParamBool},
			{Name: "tags", In: "query", Kind: openapi.ParamStringList},
		},
		Response:  model.FilterResult{},
		Validated: true,
	})

	add(r, docs, http.MethodPost, "/items/create_with_fields", handler.Handle(base, items.CreateWithFields, http.StatusOK), openapi.Operation{
		Summary:   "Create an item with documented fields",
		Tags:      []string{"items"},
		Body:      model.ItemWithImportance{},
		Response:  model.ItemWithImportance{},
		Validated: true,
	})

	for _, path := range []string{"/items/offers", "/offers"} {
		add(r, docs, http.MethodPost, path, handler.Handle(base, items.CreateOffer, http.StatusOK), openapi.Operation{
			Summary:   "Create an offer",
			Tags:      []string{"offers"},
			Body:      model.Offer{},
			Response:  model.Offer{},
			Validated: true,
		})
	}

	for _, path := range []string{"/items/users", "/users"} {
		add(r, docs, http.MethodPost, path, handler.Handle(base, items.CreateUser, http.StatusOK), openapi.Operation{
			Summary:   "Create a user",
			Tags:      []string{"users"},
			Body:      model.User{},
			Response:  model.User{},
			Validated: true,
		})
	}

	add(r, docs, http.MethodPost, "/items/extra_data_types", handler.Handle(base, items.ExtraData, http.StatusOK), openapi.Operation{
		Summary:   "Coerce extra data types",
		Tags:      []string{"items"},
		Body:      model.ExtraData{},
		Response:  model.ExtraDataResult{},
		Validated: true,
	})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		add(r, docs, method, "/items/cookies", handler.Handle(base, items.ReadSession, http.StatusOK), openapi.Operation{
			Summary: "Read the session cookie",
			Tags:    []string{"session"},
			Params: []openapi.Param{
				{Name: "session_id", In: "cookie", Kind: openapi.ParamString, Required: true},
			},
			Response:  model.SessionResult{},
			Validated: true,
		})
	}
}
