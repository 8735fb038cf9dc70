package openapi

import (
	"reflect"
	"strings"
	"time"

	"github.com/deppfellow/item-api/internal/config"
	"github.com/deppfellow/item-api/internal/errs"
	"github.com/deppfellow/item-api/internal/model"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	itemType      = reflect.TypeOf(model.Item{})
	decimalType   = reflect.TypeOf(decimal.Decimal{})
	amountType    = reflect.TypeOf(model.Amount{})
	timestampType = reflect.TypeOf(model.Timestamp{})
	durationType  = reflect.TypeOf(model.Duration(0))
	uuidType      = reflect.TypeOf(uuid.UUID{})
	timeType      = reflect.TypeOf(time.Time{})
	httpErrorType = reflect.TypeOf(errs.HTTPError{})
)

// builder turns Go types into schemas for one Generate call.
type builder struct {
	schema     config.SchemaConfig
	components openapi3.Schemas

	// cases.Caser is stateful, so each builder owns one.
	caser cases.Caser
}

func newBuilder(schema config.SchemaConfig, components openapi3.Schemas) *builder {
	return &builder{
		schema:     schema,
		components: components,
		caser:      cases.Title(language.English),
	}
}

// title derives a display title from a field name: "full_name" -> "Full Name".
func (b *builder) title(name string) string {
	return b.caser.String(strings.ReplaceAll(name, "_", " "))
}

func (b *builder) valueRef(v any) *openapi3.SchemaRef {
	return b.schemaRef(reflect.TypeOf(v))
}

// schemaRef returns a schema for t. Named structs become components and
// are returned as references.
func (b *builder) schemaRef(t reflect.Type) *openapi3.SchemaRef {
	switch t {
	case decimalType, amountType:
		if b.schema.DecimalAsNumber {
			return openapi3.NewSchemaRef("", openapi3.NewFloat64Schema())
		}
		return openapi3.NewSchemaRef("", openapi3.NewStringSchema().WithFormat("decimal"))
	case timestampType:
		s := openapi3.NewStringSchema()
		s.Description = "RFC 3339 date-time or HH:MM[:SS[.fff]] time of day"
		return openapi3.NewSchemaRef("", s)
	case durationType:
		s := openapi3.NewStringSchema()
		s.Description = "Number of seconds or a duration such as 1h30m"
		return openapi3.NewSchemaRef("", s)
	case uuidType:
		return openapi3.NewSchemaRef("", openapi3.NewUUIDSchema())
	case timeType:
		return openapi3.NewSchemaRef("", openapi3.NewDateTimeSchema())
	}

	switch t.Kind() {
	case reflect.Ptr:
		elem := b.schemaRef(t.Elem())
		if elem.Ref != "" {
			return elem
		}
		elem.Value.Nullable = true
		return elem

	case reflect.String:
		return openapi3.NewSchemaRef("", openapi3.NewStringSchema())

	case reflect.Bool:
		return openapi3.NewSchemaRef("", openapi3.NewBoolSchema())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return openapi3.NewSchemaRef("", openapi3.NewInt32Schema())

	case reflect.Int64:
		return openapi3.NewSchemaRef("", openapi3.NewInt64Schema())

	case reflect.Float32, reflect.Float64:
		return openapi3.NewSchemaRef("", openapi3.NewFloat64Schema())

	case reflect.Slice:
		s := openapi3.NewArraySchema()
		s.Items = b.schemaRef(t.Elem())
		return openapi3.NewSchemaRef("", s)

	case reflect.Array:
		s := openapi3.NewArraySchema().
			WithMinItems(int64(t.Len())).
			WithMaxItems(int64(t.Len()))
		s.Items = b.schemaRef(t.Elem())
		return openapi3.NewSchemaRef("", s)

	case reflect.Struct:
		return b.component(t)

	case reflect.Interface:
		// Any JSON value.
		return openapi3.NewSchemaRef("", openapi3.NewSchema())

	default:
		return openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
	}
}

// component registers t under its type name and returns a reference that
// also carries the resolved value.
func (b *builder) component(t reflect.Type) *openapi3.SchemaRef {
	name := t.Name()
	if existing, ok := b.components[name]; ok {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, existing.Value)
	}

	s := openapi3.NewObjectSchema()
	s.Title = name

	// Register before walking the fields so recursive types terminate.
	b.components[name] = openapi3.NewSchemaRef("", s)

	if t == itemType {
		b.itemProperties(s)
	} else {
		b.structProperties(s, t)
	}

	return openapi3.NewSchemaRef("#/components/schemas/"+name, s)
}

func (b *builder) structProperties(s *openapi3.Schema, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if field.Type == itemType {
				b.itemProperties(s)
			} else {
				b.structProperties(s, field.Type)
			}
			continue
		}

		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		prop := b.schemaRef(field.Type)
		if prop.Ref == "" {
			prop.Value.Title = b.title(name)
		}
		s.WithPropertyRef(name, prop)

		if hasRule(field.Tag.Get("validate"), "required") {
			s.Required = append(s.Required, name)
		}
	}
}

// itemProperties documents model.Item from the configured item rules.
func (b *builder) itemProperties(s *openapi3.Schema) {
	rules := b.schema.Item
	fields := []struct {
		name   string
		rule   config.FieldRule
		amount bool
	}{
		{"name", rules.Name, false},
		{"description", rules.Description, false},
		{"price", rules.Price, true},
		{"tax", rules.Tax, true},
	}

	for _, f := range fields {
		var prop *openapi3.SchemaRef
		if f.amount {
			prop = b.schemaRef(decimalType)
		} else {
			prop = openapi3.NewSchemaRef("", openapi3.NewStringSchema())
		}

		prop.Value.Title = f.rule.Title
		if prop.Value.Title == "" {
			prop.Value.Title = b.title(f.name)
		}
		prop.Value.Description = f.rule.Description

		if f.rule.MaxLength > 0 {
			prop.Value.WithMaxLength(int64(f.rule.MaxLength))
		}
		if f.rule.Positive && b.schema.DecimalAsNumber {
			prop.Value.WithMin(0).WithExclusiveMin(true)
		}
		if f.rule.Required {
			s.Required = append(s.Required, f.name)
		} else {
			prop.Value.Nullable = true
		}

		s.WithPropertyRef(f.name, prop)
	}
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if r == rule {
			return true
		}
	}
	return false
}
