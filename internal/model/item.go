package model

import "github.com/shopspring/decimal"

// Item is the single item shape. Whether a field is required, positive or
// length-bounded comes from config.ItemSchema, so every field is a pointer
// and absence stays observable.
type Item struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *Amount `json:"price"`
	Tax         *Amount `json:"tax"`
}

// ReadItemResult is returned by the read item operation.
type ReadItemResult struct {
	ItemID      int64   `json:"item_id"`
	Description string  `json:"description"`
	SortOrder   string  `json:"sort_order"`
	Q           *string `json:"q,omitempty"`
}

// UpdateItemResult merges the path id with every item field.
// Q is only present when a query string was supplied.
type UpdateItemResult struct {
	ItemID int64 `json:"item_id"`
	Item
	Q *string `json:"q,omitempty"`
}

// ItemFilter holds the optional filter criteria of the filter operation.
type ItemFilter struct {
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	TaxIncluded *bool
	Tags        []string
}

// FilterResult echoes an ItemFilter. Absent criteria serialize as null.
type FilterResult struct {
	PriceRange  [2]*decimal.Decimal `json:"price_range"`
	TaxIncluded *bool               `json:"tax_included"`
	Tags        []string            `json:"tags"`
	Message     string              `json:"message"`
}

// ItemWithImportance is the body and the result of create with fields.
type ItemWithImportance struct {
	Item       Item `json:"item"`
	Importance *int `json:"importance"`
}
