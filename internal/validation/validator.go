package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/deppfellow/item-api/internal/config"
	"github.com/deppfellow/item-api/internal/model"
	"github.com/go-playground/validator/v10"
)

const (
	// TagItemID checks an integer against the configured item_id bounds.
	TagItemID = "item_id"

	// TagQuery checks a string against the configured query length bounds.
	TagQuery = "query"
)

// nameTags are consulted in order to find the public name of a field.
var nameTags = []string{"param", "query", "cookie", "json"}

// Validator wraps a go-playground validator whose custom rules are built
// from one SchemaConfig. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	schema   config.SchemaConfig
}

// New builds a Validator for schema.
//
// It registers:
//   - the item_id and query tags, bounded by the schema
//   - a struct-level rule for model.Item that applies the per-field item rules
//   - a name function so violations carry the public field names
func New(schema config.SchemaConfig) *Validator {
	v := &Validator{
		validate: validator.New(),
		schema:   schema,
	}

	v.validate.RegisterTagNameFunc(publicName)

	// Registration only fails on an empty tag or a nil func.
	_ = v.validate.RegisterValidation(TagItemID, v.validateItemID)
	_ = v.validate.RegisterValidation(TagQuery, v.validateQuery)

	v.validate.RegisterStructValidation(v.validateItem, model.Item{})

	return v
}

// Schema returns the constraints this Validator enforces.
func (v *Validator) Schema() config.SchemaConfig {
	return v.schema
}

// Struct validates s and returns every violation found, or nil.
func (v *Validator) Struct(s any) Violations {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: s was not a struct. That is a programming error.
		panic(err)
	}

	violations := make(Violations, 0, len(validationErrors))
	for _, fe := range validationErrors {
		violations = append(violations, v.describe(fe))
	}
	return violations
}

func publicName(fld reflect.StructField) string {
	for _, tag := range nameTags {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}

func (v *Validator) validateItemID(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.schema.ItemID.Contains(fl.Field().Int())
	default:
		return false
	}
}

func (v *Validator) validateQuery(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return false
	}

	n := utf8.RuneCountInString(field.String())
	return n >= v.schema.Query.MinLength && n <= v.schema.Query.MaxLength
}

// validateItem applies config.ItemSchema to one model.Item.
func (v *Validator) validateItem(sl validator.StructLevel) {
	item := sl.Current().Interface().(model.Item)
	rules := v.schema.Item

	checkText(sl, item.Name, "name", "Name", rules.Name)
	checkText(sl, item.Description, "description", "Description", rules.Description)
	checkAmount(sl, item.Price, "price", "Price", rules.Price)
	checkAmount(sl, item.Tax, "tax", "Tax", rules.Tax)
}

func checkText(sl validator.StructLevel, value *string, name, structName string, rule config.FieldRule) {
	if value == nil {
		if rule.Required {
			sl.ReportError(value, name, structName, "required", "")
		}
		return
	}
	if rule.MaxLength > 0 && utf8.RuneCountInString(*value) > rule.MaxLength {
		sl.ReportError(*value, name, structName, "max", fmt.Sprint(rule.MaxLength))
	}
}

func checkAmount(sl validator.StructLevel, value *model.Amount, name, structName string, rule config.FieldRule) {
	if value == nil {
		if rule.Required {
			sl.ReportError(value, name, structName, "required", "")
		}
		return
	}
	if rule.Positive && !value.IsPositive() {
		sl.ReportError(*value, name, structName, "gt", "0")
	}
}

// describe turns a validator.FieldError into a Violation with a
// machine-readable constraint and a user-friendly message.
func (v *Validator) describe(fe validator.FieldError) Violation {
	violation := Violation{
		Field: fieldPath(fe.Namespace()),
		Value: fieldValue(fe),
	}

	switch fe.Tag() {
	case "required":
		violation.Constraint = "required"
		violation.Message = "is required"

	case TagItemID:
		bounds := v.schema.ItemID
		id, _ := fe.Value().(int64)
		switch {
		case bounds.Exclusive && id <= bounds.Min:
			violation.Constraint = "greater_than"
			violation.Message = fmt.Sprintf("must be greater than %d", bounds.Min)
		case bounds.Exclusive:
			violation.Constraint = "less_than"
			violation.Message = fmt.Sprintf("must be less than %d", bounds.Max)
		case id < bounds.Min:
			violation.Constraint = "greater_than_equal"
			violation.Message = fmt.Sprintf("must be greater than or equal to %d", bounds.Min)
		default:
			violation.Constraint = "less_than_equal"
			violation.Message = fmt.Sprintf("must be less than or equal to %d", bounds.Max)
		}

	case TagQuery:
		length := 0
		if s, ok := violation.Value.(string); ok {
			length = utf8.RuneCountInString(s)
		}
		if length < v.schema.Query.MinLength {
			violation.Constraint = "min_length"
			violation.Message = fmt.Sprintf("must be at least %d characters", v.schema.Query.MinLength)
		} else {
			violation.Constraint = "max_length"
			violation.Message = fmt.Sprintf("must not exceed %d characters", v.schema.Query.MaxLength)
		}

	case "min":
		// min means minimum length for strings and minimum value for numbers.
		if fe.Kind() == reflect.String {
			violation.Constraint = "min_length"
			violation.Message = fmt.Sprintf("must be at least %s characters", fe.Param())
		} else {
			violation.Constraint = "min"
			violation.Message = fmt.Sprintf("must be at least %s", fe.Param())
		}

	case "max":
		if fe.Kind() == reflect.String {
			violation.Constraint = "max_length"
			violation.Message = fmt.Sprintf("must not exceed %s characters", fe.Param())
		} else {
			violation.Constraint = "max"
			violation.Message = fmt.Sprintf("must not exceed %s", fe.Param())
		}

	case "gt":
		violation.Constraint = "greater_than"
		violation.Message = fmt.Sprintf("must be greater than %s", fe.Param())

	case "dive":
		violation.Constraint = "dive"
		violation.Message = "some items are invalid"

	default:
		violation.Constraint = fe.Tag()
		if fe.Param() != "" {
			violation.Message = fmt.Sprintf("%s: %s:%s", violation.Field, fe.Tag(), fe.Param())
		} else {
			violation.Message = fmt.Sprintf("%s: %s", violation.Field, fe.Tag())
		}
	}

	return violation
}

// fieldPath drops the root struct name: "Offer.items[1].price" -> "items[1].price".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// fieldValue dereferences pointers so the received value serializes plainly.
// Absent values become nil.
func fieldValue(fe validator.FieldError) any {
	rv := reflect.ValueOf(fe.Value())
	for rv.IsValid() && rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
