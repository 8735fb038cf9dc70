package service

import (
	"github.com/deppfellow/item-api/internal/server"
)

// Services groups every service so handlers receive one container.
type Services struct {
	Item *ItemService
}

func NewServices(s *server.Server) *Services {
	return &Services{
		Item: NewItemService(s),
	}
}
