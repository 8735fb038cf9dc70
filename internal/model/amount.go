package model

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"
)

// Amount is a decimal received in a JSON body. It accepts JSON numbers
// and numeric strings.
//
// A value that is not a decimal fails with *json.UnmarshalTypeError so the
// decoder reports the path of the offending field.
type Amount struct {
	decimal.Decimal
}

// NewAmount parses s. It panics when s is not a decimal.
func NewAmount(s string) Amount {
	return Amount{Decimal: decimal.RequireFromString(s)}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if err := a.Decimal.UnmarshalJSON(data); err != nil {
		return &json.UnmarshalTypeError{
			Value: jsonKind(data),
			Type:  reflect.TypeOf(decimal.Decimal{}),
		}
	}
	return nil
}

// SetDecimalAsNumber selects how every decimal serializes: as a JSON
// number when asNumber is set, as a quoted string otherwise.
//
// shopspring/decimal keeps this in a package variable, so it is
// process-wide. Call it once at startup, before serving requests.
func SetDecimalAsNumber(asNumber bool) {
	decimal.MarshalJSONWithoutQuotes = asNumber
}

// jsonKind names the kind of a JSON literal the way encoding/json does.
func jsonKind(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "empty"
	}
	switch data[0] {
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case '{':
		return "object"
	case '[':
		return "array"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
