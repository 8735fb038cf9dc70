package validation

import (
	"net/http"

	"github.com/deppfellow/item-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - Define a request struct with validator tags (`validate:"required"`, `validate:"item_id"`)
//   - Implement Validate that runs v.Struct(req) and any extra checks
//   - Return Violations (nil when everything holds)
type Validatable interface {
	Validate(v *Validator) error
}

// Bindable is implemented by requests that read their own path, query,
// cookie or body inputs instead of relying on echo's default binder.
type Bindable interface {
	Bind(c echo.Context) error
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. payload.Bind(c) when payload is Bindable, c.Bind(payload) otherwise.
//  2. payload.Validate(v) applies the validation rules.
//  3. Any failure is returned as *errs.HTTPError: 422 with field-level
//     errors for violations, 400 for malformed input.
//
// payload must be a pointer so binding can populate it.
func BindAndValidate(c echo.Context, payload Validatable, v *Validator) error {
	var err error
	if bindable, ok := payload.(Bindable); ok {
		err = bindable.Bind(c)
	} else {
		err = c.Bind(payload)
	}
	if err != nil {
		return toHTTPError(err)
	}

	if err := payload.Validate(v); err != nil {
		return toHTTPError(err)
	}

	return nil
}

// toHTTPError maps binding and validation failures to the client error shape.
func toHTTPError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var violations Violations
	if errors.As(err, &violations) {
		return errs.NewValidationError(violations.FieldErrors())
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field:      fieldPath(fe.Namespace()),
				Constraint: fe.Tag(),
				Value:      fieldValue(fe),
				Error:      fe.Error(),
			})
		}
		return errs.NewValidationError(fieldErrors)
	}

	// Echo's binder reports malformed input as *echo.HTTPError.
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) && echoErr.Code == http.StatusBadRequest {
		message := http.StatusText(http.StatusBadRequest)
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
		return errs.NewBadRequestError(message, false, nil, nil)
	}

	return err
}
