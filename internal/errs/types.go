package errs

import "strings"

// FieldError represents a single field-level validation violation.
// Example:
//
//	{ "field": "item_id", "constraint": "max", "value": 1001, "error": "must not exceed 1000" }
type FieldError struct {
	// Field is the path of the offending input (e.g. "q", "item.price", "items[1].name").
	Field string `json:"field"`

	// Constraint is the machine-readable rule that failed (e.g. "required", "min_length").
	Constraint string `json:"constraint"`

	// Value is the received value, null when the input was absent.
	Value any `json:"value"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface and is serialized directly to JSON.
//   - Code: machine-friendly error code (e.g. "VALIDATION_FAILED").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: lets the error handler replace the message.
//   - Errors: list of per-field errors (validation).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors.
	Errors []FieldError `json:"errors"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError, regardless of its code.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
