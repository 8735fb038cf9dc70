// Package service contains the operations behind every endpoint.
//
// It sits between the handler layer and the model. It receives
// validated input from the handler and returns the response value.
// Every operation is a pure function of its input: nothing is
// stored and nothing is shared between requests.
package service
