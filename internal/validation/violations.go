package validation

import "github.com/deppfellow/item-api/internal/errs"

// Violation is a single field-level validation failure.
type Violation struct {
	Field      string
	Constraint string
	Value      any
	Message    string
}

// Violations is the result of a failed validation pass. It satisfies error.
type Violations []Violation

func (v Violations) Error() string {
	return "Validation failed"
}

// Add records one violation.
func (v *Violations) Add(field, constraint string, value any, message string) {
	*v = append(*v, Violation{
		Field:      field,
		Constraint: constraint,
		Value:      value,
		Message:    message,
	})
}

// Err returns nil when no violation was recorded, v otherwise.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// FieldErrors converts the violations into the client error shape.
func (v Violations) FieldErrors() []errs.FieldError {
	fieldErrors := make([]errs.FieldError, 0, len(v))
	for _, violation := range v {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field:      violation.Field,
			Constraint: violation.Constraint,
			Value:      violation.Value,
			Error:      violation.Message,
		})
	}
	return fieldErrors
}
