package handler

import (
	"github.com/deppfellow/item-api/internal/model"
	"github.com/deppfellow/item-api/internal/server"
	"github.com/deppfellow/item-api/internal/service"
	"github.com/labstack/echo/v4"
)

// ItemHandler serves the item, offer, user, extra data and session
// endpoints. Every method receives a request that already passed
// validation.
type ItemHandler struct {
	Handler
	itemService *service.ItemService
}

func NewItemHandler(s *server.Server, itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{
		Handler:     NewHandler(s),
		itemService: itemService,
	}
}

func (h *ItemHandler) Root(c echo.Context, req *emptyRequest) (service.Greeting, error) {
	return h.itemService.Root(), nil
}

func (h *ItemHandler) ReadItem(c echo.Context, req *readItemRequest) (model.ReadItemResult, error) {
	return h.itemService.ReadItem(req.ItemID, req.Q, req.SortOrder), nil
}

func (h *ItemHandler) UpdateItem(c echo.Context, req *updateItemRequest) (model.UpdateItemResult, error) {
	return h.itemService.UpdateItem(req.ItemID, req.Item, req.Q), nil
}

func (h *ItemHandler) FilterItems(c echo.Context, req *filterItemsRequest) (model.FilterResult, error) {
	return h.itemService.FilterItems(req.ItemFilter), nil
}

func (h *ItemHandler) CreateWithFields(c echo.Context, req *createWithFieldsRequest) (model.ItemWithImportance, error) {
	return h.itemService.CreateWithFields(req.ItemWithImportance), nil
}

func (h *ItemHandler) CreateOffer(c echo.Context, req *createOfferRequest) (model.Offer, error) {
	return h.itemService.CreateOffer(req.Offer), nil
}

func (h *ItemHandler) CreateUser(c echo.Context, req *createUserRequest) (model.User, error) {
	return h.itemService.CreateUser(req.User), nil
}

func (h *ItemHandler) ExtraData(c echo.Context, req *extraDataRequest) (model.ExtraDataResult, error) {
	return h.itemService.ExtraData(req.ExtraData), nil
}

func (h *ItemHandler) ReadSession(c echo.Context, req *sessionRequest) (model.SessionResult, error) {
	return h.itemService.ReadSession(*req.SessionID), nil
}
