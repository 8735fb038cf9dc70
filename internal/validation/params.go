package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/item-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Params reads path, query and cookie inputs of one request and collects
// every type coercion failure instead of stopping at the first one.
//
// Optional inputs come back as nil when absent, so "not supplied" stays
// distinguishable from a zero value.
type Params struct {
	c          echo.Context
	violations Violations
}

// NewParams starts reading the inputs of c.
func NewParams(c echo.Context) *Params {
	return &Params{c: c}
}

// PathInt64 reads a required integer path segment.
func (p *Params) PathInt64(name string) int64 {
	var value int64
	if err := echo.PathParamsBinder(p.c).Int64(name, &value).BindError(); err != nil {
		p.violations.Add(name, "type", p.c.Param(name), "must be a valid integer")
	}
	return value
}

// QueryString reads an optional query parameter. A present but empty
// parameter is returned as an empty string, not nil.
func (p *Params) QueryString(name string) *string {
	values, ok := p.c.QueryParams()[name]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}

// QueryStrings reads a repeatable query parameter (?tags=a&tags=b).
func (p *Params) QueryStrings(name string) []string {
	values, ok := p.c.QueryParams()[name]
	if !ok {
		return nil
	}
	return append([]string(nil), values...)
}

// QueryBool reads an optional boolean query parameter.
func (p *Params) QueryBool(name string) *bool {
	if _, ok := p.c.QueryParams()[name]; !ok {
		return nil
	}
	var value bool
	if err := echo.QueryParamsBinder(p.c).Bool(name, &value).BindError(); err != nil {
		p.violations.Add(name, "type", p.c.QueryParam(name), "must be a valid boolean")
		return nil
	}
	return &value
}

// QueryDecimal reads an optional decimal query parameter.
func (p *Params) QueryDecimal(name string) *decimal.Decimal {
	raw := p.QueryString(name)
	if raw == nil {
		return nil
	}
	value, err := decimal.NewFromString(*raw)
	if err != nil {
		p.violations.Add(name, "type", *raw, "must be a valid decimal number")
		return nil
	}
	return &value
}

// Cookie reads an optional cookie.
func (p *Params) Cookie(name string) *string {
	cookie, err := p.c.Cookie(name)
	if err != nil {
		return nil
	}
	value := cookie.Value
	return &value
}

// Body decodes the JSON request body into dst. Type mismatches join the
// collected violations; a missing required body is one more violation and
// malformed JSON is returned as is.
func (p *Params) Body(dst any, required bool) error {
	err := DecodeBody(p.c, dst, required)

	var violations Violations
	if errors.As(err, &violations) {
		p.violations = append(p.violations, violations...)
		return nil
	}
	return err
}

// Err returns the collected coercion failures, or nil.
func (p *Params) Err() error {
	return p.violations.Err()
}

// DecodeBody decodes the JSON request body into dst.
//
// An empty or null body is a "required" violation on field "body" when
// required is set and a no-op otherwise. Type mismatches become "type"
// violations carrying the received value; syntactically broken JSON is a 400.
func DecodeBody(c echo.Context, dst any, required bool) error {
	req := c.Request()
	if req.Body == nil || req.Body == http.NoBody {
		return missingBody(required)
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read request body")
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return missingBody(required)
	}
	req.Body = io.NopCloser(bytes.NewReader(data))

	err = c.Echo().JSONSerializer.Deserialize(c, dst)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return errs.NewBadRequestError(fmt.Sprintf("Malformed JSON body at offset %d", syntaxErr.Offset), false, nil, nil)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.NewBadRequestError("Malformed JSON body: unexpected end of input", false, nil, nil)
	}

	var violations Violations
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field, value := locateField(data, typeErr.Field, typeErr.Type)
		violations.Add(field, "type", value,
			fmt.Sprintf("must be a valid %s, got %s", typeName(typeErr.Type), typeErr.Value))
		return violations
	}

	violations.Add("body", "type", nil, err.Error())
	return violations
}

func missingBody(required bool) error {
	if !required {
		return nil
	}
	var violations Violations
	violations.Add("body", "required", nil, "is required")
	return violations
}

// locateField finds the received value behind a type error. The decoder
// reports dotted paths without element indexes ("items.price"), so arrays
// along the path are searched for the first element that does not decode
// into t, which yields "items[1].price". An empty path is the whole body.
func locateField(data []byte, path string, t reflect.Type) (string, any) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var body any
	if err := decoder.Decode(&body); err != nil {
		return path, nil
	}
	if path == "" {
		return "body", body
	}

	if field, value, ok := locate(body, strings.Split(path, "."), "", t); ok {
		return field, value
	}
	return path, nil
}

func locate(value any, keys []string, prefix string, t reflect.Type) (string, any, bool) {
	if elements, ok := value.([]any); ok && prefix != "" {
		for i, element := range elements {
			if field, found, ok := locate(element, keys, fmt.Sprintf("%s[%d]", prefix, i), t); ok {
				return field, found, true
			}
		}
		if len(keys) > 0 {
			return "", nil, false
		}
	}

	if len(keys) == 0 {
		return prefix, value, !decodesAs(value, t)
	}

	object, ok := value.(map[string]any)
	if !ok {
		return "", nil, false
	}
	next, ok := object[keys[0]]
	if !ok {
		return "", nil, false
	}

	field := keys[0]
	if prefix != "" {
		field = prefix + "." + keys[0]
	}
	return locate(next, keys[1:], field, t)
}

// decodesAs reports whether value decodes into a t.
func decodesAs(value any, t reflect.Type) bool {
	if t == nil {
		return false
	}
	data, err := json.Marshal(value)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, reflect.New(t).Interface()) == nil
}

// typeName names the expected type in client terms.
func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	if t == reflect.TypeOf(decimal.Decimal{}) {
		return "decimal number"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.String()
	}
}
