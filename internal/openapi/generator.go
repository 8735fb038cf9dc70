// Package openapi generates the OpenAPI 3 document of the HTTP API.
//
// Operations are registered next to the routes that serve them; request
// and response shapes are reflected from the model types, and the item
// rules, bounds and lengths come from config.SchemaConfig so the document
// always describes what the validator enforces.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/deppfellow/item-api/internal/config"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// ParamKind selects the schema of a path, query or cookie parameter.
type ParamKind int

const (
	// ParamString is free text.
	ParamString ParamKind = iota
	// ParamItemID is an integer bounded by schema.item_id.
	ParamItemID
	// ParamQuery is text bounded by schema.query.
	ParamQuery
	ParamDecimal
	ParamBool
	// ParamStringList is a repeatable text parameter (?tags=a&tags=b).
	ParamStringList
)

// Param documents one non-body input.
type Param struct {
	Name     string
	In       string
	Kind     ParamKind
	Required bool
	Default  any
}

// Operation documents one route.
type Operation struct {
	Summary string
	Tags    []string
	Params  []Param

	// Body and Response are zero values of the model types; nil means none.
	Body     any
	Response any

	// Status is the success status, http.StatusOK when zero.
	Status int

	// Validated operations document the 422 validation failure response.
	Validated bool
}

type route struct {
	method string
	path   string
	op     Operation
}

// Option configures the generator.
type Option func(*Generator)

func WithTitle(title string) Option {
	return func(g *Generator) {
		g.title = title
	}
}

func WithVersion(version string) Option {
	return func(g *Generator) {
		g.version = version
	}
}

func WithDescription(description string) Option {
	return func(g *Generator) {
		g.description = description
	}
}

// Generator collects routes and produces the document. It is safe for
// concurrent use; the document is built once and cached until a route is added.
type Generator struct {
	title       string
	version     string
	description string
	schema      config.SchemaConfig

	mu        sync.RWMutex
	routes    []route
	cachedDoc *openapi3.T
}

func NewGenerator(schema config.SchemaConfig, opts ...Option) *Generator {
	g := &Generator{
		title:       "Item API",
		version:     "dev",
		description: "Validates item, offer, user and session input and echoes it back.",
		schema:      schema,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Add documents method on an echo route path such as "/items/:item_id".
func (g *Generator) Add(method, path string, op Operation) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routes = append(g.routes, route{method: method, path: toTemplate(path), op: op})
	g.cachedDoc = nil
}

// Generate returns the document.
func (g *Generator) Generate() *openapi3.T {
	g.mu.RLock()
	if g.cachedDoc != nil {
		doc := g.cachedDoc
		g.mu.RUnlock()
		return doc
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cachedDoc != nil {
		return g.cachedDoc
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       g.title,
			Version:     g.version,
			Description: g.description,
		},
		Paths: &openapi3.Paths{},
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	b := newBuilder(g.schema, doc.Components.Schemas)
	errorRef := b.schemaRef(httpErrorType)

	for _, r := range g.routes {
		item := doc.Paths.Value(r.path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(r.path, item)
		}
		item.SetOperation(r.method, b.operation(r, errorRef))
	}

	g.cachedDoc = doc
	return doc
}

// JSON renders the document as indented JSON.
func (g *Generator) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(g.Generate(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI document as JSON: %w", err)
	}
	return data, nil
}

// YAML renders the document as YAML.
func (g *Generator) YAML() ([]byte, error) {
	data, err := yaml.Marshal(g.Generate())
	if err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI document as YAML: %w", err)
	}
	return data, nil
}

func (b *builder) operation(r route, errorRef *openapi3.SchemaRef) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = operationID(r.method, r.path)
	op.Summary = r.op.Summary
	op.Tags = r.op.Tags
	op.Responses = openapi3.NewResponsesWithCapacity(3)

	for _, p := range r.op.Params {
		op.AddParameter(b.parameter(p))
	}

	if r.op.Body != nil {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchemaRef(b.valueRef(r.op.Body)),
		}
		op.AddResponse(http.StatusBadRequest, openapi3.NewResponse().
			WithDescription("Malformed JSON body").
			WithJSONSchemaRef(errorRef))
	}

	status := r.op.Status
	if status == 0 {
		status = http.StatusOK
	}
	success := openapi3.NewResponse().WithDescription(http.StatusText(status))
	if r.op.Response != nil {
		success = success.WithJSONSchemaRef(b.valueRef(r.op.Response))
	}
	op.AddResponse(status, success)

	if r.op.Validated {
		op.AddResponse(http.StatusUnprocessableEntity, openapi3.NewResponse().
			WithDescription("Validation failed").
			WithJSONSchemaRef(errorRef))
	}

	return op
}

func (b *builder) parameter(p Param) *openapi3.Parameter {
	var param *openapi3.Parameter
	switch p.In {
	case openapi3.ParameterInPath:
		param = openapi3.NewPathParameter(p.Name)
	case openapi3.ParameterInCookie:
		param = openapi3.NewCookieParameter(p.Name)
	default:
		param = openapi3.NewQueryParameter(p.Name)
	}

	var schema *openapi3.Schema
	switch p.Kind {
	case ParamItemID:
		bounds := b.schema.ItemID
		schema = openapi3.NewInt64Schema().
			WithMin(float64(bounds.Min)).
			WithMax(float64(bounds.Max)).
			WithExclusiveMin(bounds.Exclusive).
			WithExclusiveMax(bounds.Exclusive)
	case ParamQuery:
		schema = openapi3.NewStringSchema().
			WithMinLength(int64(b.schema.Query.MinLength)).
			WithMaxLength(int64(b.schema.Query.MaxLength))
	case ParamDecimal:
		schema = openapi3.NewFloat64Schema()
	case ParamBool:
		schema = openapi3.NewBoolSchema()
	case ParamStringList:
		schema = openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	default:
		schema = openapi3.NewStringSchema()
	}
	if p.Default != nil {
		schema = schema.WithDefault(p.Default)
	}
	schema.Title = b.title(p.Name)

	// Path parameters are always required.
	return param.
		WithRequired(p.Required || p.In == openapi3.ParameterInPath).
		WithSchema(schema)
}

// toTemplate turns "/items/:item_id" into "/items/{item_id}".
func toTemplate(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, ":") {
			segments[i] = "{" + segment[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

// operationID derives a unique id from the method and path:
// GET /items/{item_id} -> get_items_item_id.
func operationID(method, path string) string {
	replacer := strings.NewReplacer("/", "_", "{", "", "}", "")
	id := strings.Trim(replacer.Replace(path), "_")
	if id == "" {
		id = "root"
	}
	return strings.ToLower(method) + "_" + id
}
