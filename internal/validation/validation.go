// Package validation contains the logic for validating
// request data.
//
// Each request runs an explicit validation pass that returns either
// nil or the full list of field-level violations. Constraints come
// from struct tags checked by the `validator` library, and the
// tunable ones (item id bounds, query length, item field rules) are
// built from a single config.SchemaConfig.
package validation
