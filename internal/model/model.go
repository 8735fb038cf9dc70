// Package model holds the request-scoped value objects the service
// validates and echoes back.
//
// None of these types outlive a single request; nothing here is stored
// or shared between requests.
package model
