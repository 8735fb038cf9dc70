// Package errs defines the error types returned to API clients.
//
// Every failure leaves the service as an HTTPError so clients always
// receive the same JSON shape, including a list of field-level
// violations when validation fails.
package errs
