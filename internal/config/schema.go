package config

import "fmt"

// SchemaConfig holds every constraint the request validation layer enforces.
//
// Item and "item with fields" payloads share the same Item rules; titles
// and descriptions only feed the generated API documentation.
type SchemaConfig struct {
	ItemID            BoundsConfig `koanf:"item_id"`
	Query             LengthConfig `koanf:"query"`
	SortOrder         string       `koanf:"sort_order" validate:"required"`
	Item              ItemSchema   `koanf:"item"`
	RequireImportance bool         `koanf:"require_importance"`
	DecimalAsNumber   bool         `koanf:"decimal_as_number"`
}

// BoundsConfig is a numeric range. Exclusive drops both endpoints.
type BoundsConfig struct {
	Min       int64 `koanf:"min"`
	Max       int64 `koanf:"max"`
	Exclusive bool  `koanf:"exclusive"`
}

// Contains reports whether v lies inside the range.
func (b BoundsConfig) Contains(v int64) bool {
	if b.Exclusive {
		return v > b.Min && v < b.Max
	}
	return v >= b.Min && v <= b.Max
}

// LengthConfig bounds the length of a string in characters.
type LengthConfig struct {
	MinLength int `koanf:"min_length" validate:"min=0"`
	MaxLength int `koanf:"max_length" validate:"min=1"`
}

// ItemSchema holds one rule per item field.
type ItemSchema struct {
	Name        FieldRule `koanf:"name"`
	Description FieldRule `koanf:"description"`
	Price       FieldRule `koanf:"price"`
	Tax         FieldRule `koanf:"tax"`
}

// FieldRule describes a single item field.
//
// MaxLength of zero means unbounded. Positive only applies to numeric fields.
type FieldRule struct {
	Required    bool   `koanf:"required"`
	Positive    bool   `koanf:"positive"`
	MaxLength   int    `koanf:"max_length" validate:"min=0"`
	Title       string `koanf:"title"`
	Description string `koanf:"description"`
}

// DefaultSchemaConfig returns inclusive [1,1000] ids, 3 to 50 character
// queries, and positive prices and taxes.
func DefaultSchemaConfig() SchemaConfig {
	return SchemaConfig{
		ItemID:    BoundsConfig{Min: 1, Max: 1000},
		Query:     LengthConfig{MinLength: 3, MaxLength: 50},
		SortOrder: "asc",
		Item: ItemSchema{
			Name: FieldRule{
				Required: true,
				Title:    "Name",
			},
			Description: FieldRule{
				MaxLength: 300,
				Title:     "The description of the item",
			},
			Price: FieldRule{
				Required:    true,
				Positive:    true,
				Description: "The price must be greater than zero",
			},
			Tax: FieldRule{
				Positive: true,
			},
		},
		RequireImportance: true,
		DecimalAsNumber:   true,
	}
}

// Validate rejects schema values that would make every request fail.
func (s SchemaConfig) Validate() error {
	if s.ItemID.Min > s.ItemID.Max {
		return fmt.Errorf("item_id min %d is greater than max %d", s.ItemID.Min, s.ItemID.Max)
	}
	if s.ItemID.Exclusive && s.ItemID.Max-s.ItemID.Min < 2 {
		return fmt.Errorf("exclusive item_id range (%d,%d) is empty", s.ItemID.Min, s.ItemID.Max)
	}
	if s.Query.MinLength > s.Query.MaxLength {
		return fmt.Errorf("query min_length %d is greater than max_length %d", s.Query.MinLength, s.Query.MaxLength)
	}
	return nil
}
