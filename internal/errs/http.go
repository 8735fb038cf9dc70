package errs

import (
	"net/http"
)

// ValidationFailedCode is the code of every response that lists field violations.
const ValidationFailedCode = "VALIDATION_FAILED"

// NewValidationError creates a 422 Unprocessable Entity HTTPError listing
// every violated constraint.
func NewValidationError(fieldErrors []FieldError) *HTTPError {
	return &HTTPError{
		Code:     ValidationFailedCode,
		Message:  "Validation failed",
		Status:   http.StatusUnprocessableEntity,
		Override: false,
		Errors:   fieldErrors,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code is optional; nil defaults to "BAD_REQUEST".
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the underlying error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}
