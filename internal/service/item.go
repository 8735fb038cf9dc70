package service

import (
	"fmt"
	"time"

	"github.com/deppfellow/item-api/internal/model"
	"github.com/deppfellow/item-api/internal/server"
	"github.com/shopspring/decimal"
)

const (
	// GreetingMessage is the root probe payload.
	GreetingMessage = "Hello World"

	// DefaultItemDescription is used when a read carries no query string.
	DefaultItemDescription = "This is an amazing item that has a long description"

	FilterMessage  = "Filtering items"
	SessionMessage = "Session cookie received"
)

// Greeting is the root probe response.
type Greeting struct {
	Message string `json:"message"`
}

type ItemService struct {
	server *server.Server
}

func NewItemService(s *server.Server) *ItemService {
	return &ItemService{server: s}
}

func (s *ItemService) Root() Greeting {
	return Greeting{Message: GreetingMessage}
}

// ReadItem describes item itemID, mentioning q when one was supplied.
// An empty sortOrder falls back to the configured default.
func (s *ItemService) ReadItem(itemID int64, q *string, sortOrder string) model.ReadItemResult {
	if sortOrder == "" {
		sortOrder = s.server.Config.Schema.SortOrder
	}

	description := DefaultItemDescription
	if q != nil {
		description = fmt.Sprintf("Item %d matches the query %q", itemID, *q)
	}

	return model.ReadItemResult{
		ItemID:      itemID,
		Description: description,
		SortOrder:   sortOrder,
		Q:           q,
	}
}

// UpdateItem merges itemID with every field of item. q is echoed only when present.
func (s *ItemService) UpdateItem(itemID int64, item model.Item, q *string) model.UpdateItemResult {
	return model.UpdateItemResult{
		ItemID: itemID,
		Item:   item,
		Q:      q,
	}
}

// FilterItems echoes the criteria back; no item is looked up.
func (s *ItemService) FilterItems(filter model.ItemFilter) model.FilterResult {
	return model.FilterResult{
		PriceRange:  [2]*decimal.Decimal{filter.MinPrice, filter.MaxPrice},
		TaxIncluded: filter.TaxIncluded,
		Tags:        filter.Tags,
		Message:     FilterMessage,
	}
}

func (s *ItemService) CreateWithFields(in model.ItemWithImportance) model.ItemWithImportance {
	return in
}

func (s *ItemService) CreateOffer(offer model.Offer) model.Offer {
	return offer
}

func (s *ItemService) CreateUser(user model.User) model.User {
	return user
}

// ExtraData echoes data with its derived duration and next start.
func (s *ItemService) ExtraData(data model.ExtraData) model.ExtraDataResult {
	return model.ExtraDataResult{
		ExtraData: data,
		Duration:  model.Duration(data.EndTime.Sub(data.StartTime.Time)),
		NextStart: data.StartTime.Add(time.Duration(data.RepeatEvery)),
	}
}

func (s *ItemService) ReadSession(sessionID string) model.SessionResult {
	return model.SessionResult{
		SessionID: sessionID,
		Message:   SessionMessage,
	}
}
