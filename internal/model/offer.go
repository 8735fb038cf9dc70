package model

// Offer groups an ordered list of items under a discount.
type Offer struct {
	Name     *string `json:"name" validate:"required"`
	Discount *Amount `json:"discount" validate:"required"`
	Items    []Item  `json:"items" validate:"required,dive"`
}
