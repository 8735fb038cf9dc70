package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/deppfellow/item-api/internal/config"
	"github.com/deppfellow/item-api/internal/handler"
	"github.com/deppfellow/item-api/internal/middleware"
	"github.com/deppfellow/item-api/internal/model"
	"github.com/deppfellow/item-api/internal/router"
	"github.com/deppfellow/item-api/internal/server"
	"github.com/deppfellow/item-api/internal/service"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	model.SetDecimalAsNumber(config.DefaultSchemaConfig().DecimalAsNumber)
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T, mutate ...func(cfg *config.Config)) *echo.Echo {
	t.Helper()

	cfg := config.Default()
	cfg.Observability.ServiceName = config.ServiceName
	cfg.Observability.Environment = cfg.Primary.Env
	for _, m := range mutate {
		m(cfg)
	}

	log := zerolog.Nop()
	srv, err := server.New(cfg, &log, nil)
	require.NoError(t, err)

	return router.NewRouter(srv, handler.NewHandlers(srv, service.NewServices(srv)))
}

type response struct {
	*httptest.ResponseRecorder
	body map[string]any
}

func do(t *testing.T, e *echo.Echo, method, target, body string, cookies ...*http.Cookie) response {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	res := response{ResponseRecorder: rec}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.body), rec.Body.String())
	}
	return res
}

// violations returns field -> constraint of a validation failure body.
func violations(t *testing.T, res response) map[string]string {
	t.Helper()

	require.Equal(t, http.StatusUnprocessableEntity, res.Code, res.Body.String())
	assert.Equal(t, "VALIDATION_FAILED", res.body["code"])

	list, ok := res.body["errors"].([]any)
	require.True(t, ok, "errors must be a list")

	out := make(map[string]string, len(list))
	for _, item := range list {
		fe := item.(map[string]any)
		out[fe["field"].(string)] = fe["constraint"].(string)
	}
	return out
}

// violation returns the reported error of field.
func violation(t *testing.T, res response, field string) map[string]any {
	t.Helper()

	require.Equal(t, http.StatusUnprocessableEntity, res.Code, res.Body.String())
	for _, item := range res.body["errors"].([]any) {
		fe := item.(map[string]any)
		if fe["field"] == field {
			return fe
		}
	}
	require.Failf(t, "missing violation", "no error for %q in %s", field, res.Body.String())
	return nil
}

func TestRoot(t *testing.T) {
	e := newTestRouter(t)

	res := do(t, e, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, map[string]any{"message": "Hello World"}, res.body)
	assert.NotEmpty(t, res.Header().Get(middleware.RequestIDHeader))

	res = do(t, e, http.MethodHead, "/", "")
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestReadItem(t *testing.T) {
	e := newTestRouter(t)

	t.Run("defaults", func(t *testing.T) {
		res := do(t, e, http.MethodGet, "/items/5", "")

		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, float64(5), res.body["item_id"])
		assert.Equal(t, "asc", res.body["sort_order"])
		assert.Equal(t, service.DefaultItemDescription, res.body["description"])
		assert.NotContains(t, res.body, "q")
	})

	t.Run("query is echoed and mentioned", func(t *testing.T) {
		res := do(t, e, http.MethodGet, "/items/5?q=abc&sort_order=desc", "")

		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "abc", res.body["q"])
		assert.Equal(t, "desc", res.body["sort_order"])
		assert.Contains(t, res.body["description"], "abc")
	})

	t.Run("id bounds", func(t *testing.T) {
		tests := []struct {
			target     string
			constraint string
		}{
			{"/items/0", "greater_than_equal"},
			{"/items/-3", "greater_than_equal"},
			{"/items/1001", "less_than_equal"},
		}
		for _, tt := range tests {
			t.Run(tt.target, func(t *testing.T) {
				res := do(t, e, http.MethodGet, tt.target, "")

				got := violations(t, res)
				assert.Equal(t, tt.constraint, got["item_id"])
				assert.NotContains(t, res.body, "item_id")
			})
		}
	})

	t.Run("non numeric id", func(t *testing.T) {
		res := do(t, e, http.MethodGet, "/items/abc", "")

		assert.Equal(t, "type", violations(t, res)["item_id"])
	})

	t.Run("query length", func(t *testing.T) {
		assert.Equal(t, "min_length", violations(t, do(t, e, http.MethodGet, "/items/5?q=ab", ""))["q"])
		assert.Equal(t, "max_length", violations(t, do(t, e, http.MethodGet, "/items/5?q="+strings.Repeat("x", 51), ""))["q"])

		res := do(t, e, http.MethodGet, "/items/5?q="+strings.Repeat("x", 50), "")
		assert.Equal(t, http.StatusOK, res.Code)
	})
}

func TestReadItemExclusiveBounds(t *testing.T) {
	e := newTestRouter(t, func(cfg *config.Config) {
		cfg.Schema.ItemID.Exclusive = true
	})

	assert.Equal(t, "greater_than", violations(t, do(t, e, http.MethodGet, "/items/1", ""))["item_id"])
	assert.Equal(t, "less_than", violations(t, do(t, e, http.MethodGet, "/items/1000", ""))["item_id"])
	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/items/2", "").Code)
}

func TestUpdateItem(t *testing.T) {
	e := newTestRouter(t)
	body := `{"name": "Foo", "description": "A foo", "price": 35.4, "tax": 3.2}`

	t.Run("round trip without query", func(t *testing.T) {
		res := do(t, e, http.MethodPut, "/items/42", body)

		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		assert.Equal(t, map[string]any{
			"item_id":     float64(42),
			"name":        "Foo",
			"description": "A foo",
			"price":       35.4,
			"tax":         3.2,
		}, res.body)
	})

	t.Run("query is echoed", func(t *testing.T) {
		res := do(t, e, http.MethodPut, "/items/42?q=bar", body)

		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "bar", res.body["q"])
	})

	t.Run("absent optional fields are null", func(t *testing.T) {
		res := do(t, e, http.MethodPut, "/items/42", `{"name": "Foo", "price": 1}`)

		require.Equal(t, http.StatusOK, res.Code)
		assert.Nil(t, res.body["description"])
		assert.Nil(t, res.body["tax"])
		assert.Contains(t, res.body, "tax")
	})

	t.Run("missing body", func(t *testing.T) {
		assert.Equal(t, "required", violations(t, do(t, e, http.MethodPut, "/items/42", ""))["body"])
	})

	t.Run("every violation is reported", func(t *testing.T) {
		res := do(t, e, http.MethodPut, "/items/2000?q=x", `{"price": -1}`)

		assert.Equal(t, map[string]string{
			"item_id": "less_than_equal",
			"q":       "min_length",
			"name":    "required",
			"price":   "greater_than",
		}, violations(t, res))
	})

	t.Run("description too long", func(t *testing.T) {
		long := strings.Repeat("d", 301)
		res := do(t, e, http.MethodPut, "/items/1", `{"name": "n", "price": 1, "description": "`+long+`"}`)

		assert.Equal(t, "max_length", violations(t, res)["description"])
	})

	t.Run("null body", func(t *testing.T) {
		res := do(t, e, http.MethodPut, "/items/42", `null`)

		assert.Equal(t, map[string]string{"body": "required"}, violations(t, res))
	})

	t.Run("wrong field type", func(t *testing.T) {
		res := do(t, e, http.MethodPut, "/items/1", `{"name": 12, "price": 1}`)

		fe := violation(t, res, "name")
		assert.Equal(t, "type", fe["constraint"])
		assert.Equal(t, float64(12), fe["value"])
	})

	t.Run("undecodable amounts", func(t *testing.T) {
		tests := []struct {
			body  string
			field string
			value any
		}{
			{`{"name": "Foo", "price": "abc"}`, "price", "abc"},
			{`{"name": "Foo", "price": 1, "tax": true}`, "tax", true},
			{`{"name": "Foo", "price": {"amount": 1}}`, "price", map[string]any{"amount": float64(1)}},
		}

		for _, tt := range tests {
			res := do(t, e, http.MethodPut, "/items/1", tt.body)

			fe := violation(t, res, tt.field)
			assert.Equal(t, "type", fe["constraint"], tt.body)
			assert.Equal(t, tt.value, fe["value"], tt.body)
			assert.True(t, strings.HasPrefix(fe["error"].(string), "must be a valid decimal number"), fe["error"])
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		res := do(t, e, http.MethodPut, "/items/1", `{"name": `)

		require.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "BAD_REQUEST", res.body["code"])
	})
}

func TestFilterItems(t *testing.T) {
	e := newTestRouter(t)

	t.Run("no criteria never fails", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/items/filter/", "")

		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, map[string]any{
			"price_range":  []any{nil, nil},
			"tax_included": nil,
			"tags":         nil,
			"message":      service.FilterMessage,
		}, res.body)
	})

	t.Run("criteria are coerced", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/items/filter?min_price=1.5&max_price=10&tax_included=true&tags=a&tags=b", "")

		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, []any{1.5, float64(10)}, res.body["price_range"])
		assert.Equal(t, true, res.body["tax_included"])
		assert.Equal(t, []any{"a", "b"}, res.body["tags"])
	})

	t.Run("type errors", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/items/filter?min_price=cheap&tax_included=maybe", "")

		assert.Equal(t, map[string]string{
			"min_price":    "type",
			"tax_included": "type",
		}, violations(t, res))
	})
}

func TestCreateWithFields(t *testing.T) {
	e := newTestRouter(t)

	t.Run("valid", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/items/create_with_fields/", `{"item": {"name": "Foo", "price": 2}, "importance": 5}`)

		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		assert.Equal(t, float64(5), res.body["importance"])
		assert.Equal(t, "Foo", res.body["item"].(map[string]any)["name"])
	})

	t.Run("nested violations and missing importance", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/items/create_with_fields", `{"item": {"price": 0}}`)

		assert.Equal(t, map[string]string{
			"item.name":  "required",
			"item.price": "greater_than",
			"importance": "required",
		}, violations(t, res))
	})

	t.Run("undecodable nested price", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/items/create_with_fields", `{"item": {"name": "Foo", "price": "abc"}, "importance": 1}`)

		fe := violation(t, res, "item.price")
		assert.Equal(t, "type", fe["constraint"])
		assert.Equal(t, "abc", fe["value"])
	})

	t.Run("importance optional by config", func(t *testing.T) {
		e := newTestRouter(t, func(cfg *config.Config) {
			cfg.Schema.RequireImportance = false
		})

		res := do(t, e, http.MethodPost, "/items/create_with_fields", `{"item": {"name": "Foo", "price": 2}}`)

		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		assert.Nil(t, res.body["importance"])
	})
}

func TestCreateOffer(t *testing.T) {
	e := newTestRouter(t)
	body := `{"name": "Deal", "discount": 0.1, "items": [{"name": "A", "price": 1}, {"name": "B", "price": 2}]}`

	for _, path := range []string{"/items/offers/", "/offers/"} {
		t.Run(path, func(t *testing.T) {
			res := do(t, e, http.MethodPost, path, body)

			require.Equal(t, http.StatusOK, res.Code, res.Body.String())
			assert.Equal(t, "Deal", res.body["name"])
			assert.Len(t, res.body["items"], 2)
		})
	}

	t.Run("indexed item violations", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/offers", `{"name": "Deal", "discount": 0.1, "items": [{"name": "A", "price": 1}, {"name": "B", "price": -2}]}`)

		assert.Equal(t, map[string]string{"items[1].price": "greater_than"}, violations(t, res))
	})

	t.Run("undecodable discount", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/offers", `{"name": "Deal", "discount": "ten", "items": []}`)

		fe := violation(t, res, "discount")
		assert.Equal(t, "type", fe["constraint"])
		assert.Equal(t, "ten", fe["value"])
	})

	t.Run("undecodable item price is indexed", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/offers", `{"name": "Deal", "discount": 0.1, "items": [{"name": "A", "price": 1}, {"name": "B", "price": "abc"}]}`)

		fe := violation(t, res, "items[1].price")
		assert.Equal(t, "type", fe["constraint"])
		assert.Equal(t, "abc", fe["value"])
	})

	t.Run("null body", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/offers", `null`)

		assert.Equal(t, map[string]string{"body": "required"}, violations(t, res))
	})

	t.Run("missing fields", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/offers", `{}`)

		assert.Equal(t, map[string]string{
			"name":     "required",
			"discount": "required",
			"items":    "required",
		}, violations(t, res))
	})
}

func TestCreateUser(t *testing.T) {
	e := newTestRouter(t)

	t.Run("valid", func(t *testing.T) {
		for _, path := range []string{"/items/users/", "/users/"} {
			res := do(t, e, http.MethodPost, path, `{"username": "jd", "email": "jd@example.com", "full_name": "John Doe"}`)

			require.Equal(t, http.StatusOK, res.Code, res.Body.String())
			assert.Equal(t, map[string]any{
				"username":  "jd",
				"email":     "jd@example.com",
				"full_name": "John Doe",
			}, res.body)
		}
	})

	tests := []struct {
		missing string
		body    string
	}{
		{"username", `{"email": "jd@example.com", "full_name": "John Doe"}`},
		{"email", `{"username": "jd", "full_name": "John Doe"}`},
		{"full_name", `{"username": "jd", "email": "jd@example.com"}`},
	}
	for _, tt := range tests {
		t.Run("missing "+tt.missing, func(t *testing.T) {
			res := do(t, e, http.MethodPost, "/users", tt.body)

			assert.Equal(t, map[string]string{tt.missing: "required"}, violations(t, res))
		})
	}
}

func TestExtraDataTypes(t *testing.T) {
	e := newTestRouter(t)

	t.Run("date-times", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/items/extra_data_types/", `{
			"start_time": "2024-01-01T10:00:00Z",
			"end_time": "2024-01-01T12:30:00Z",
			"repeat_every": 3600,
			"process_id": "7b1f1c3e-5f4a-4b8e-9a1d-2c3b4d5e6f70"
		}`)

		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		assert.Equal(t, "2024-01-01T10:00:00Z", res.body["start_time"])
		assert.Equal(t, "1h0m0s", res.body["repeat_every"])
		assert.Equal(t, "2h30m0s", res.body["duration"])
		assert.Equal(t, "2024-01-01T11:00:00Z", res.body["next_start"])
		assert.Equal(t, "7b1f1c3e-5f4a-4b8e-9a1d-2c3b4d5e6f70", res.body["process_id"])
	})

	t.Run("times of day", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/items/extra_data_types", `{
			"start_time": "09:00",
			"end_time": "09:45:30",
			"repeat_every": "15m",
			"process_id": "7b1f1c3e-5f4a-4b8e-9a1d-2c3b4d5e6f70"
		}`)

		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		assert.Equal(t, "09:00:00", res.body["start_time"])
		assert.Equal(t, "45m30s", res.body["duration"])
		assert.Equal(t, "09:15:00", res.body["next_start"])
	})

	t.Run("every coercion failure is reported", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/items/extra_data_types", `{
			"start_time": "yesterday",
			"end_time": 12,
			"repeat_every": "often",
			"process_id": "not-a-uuid"
		}`)

		assert.Equal(t, map[string]string{
			"start_time":   "type",
			"end_time":     "type",
			"repeat_every": "type",
			"process_id":   "type",
		}, violations(t, res))
	})

	t.Run("out of range repeat", func(t *testing.T) {
		for _, repeat := range []string{`1e300`, `-1e300`, `"NaN"`, `"Inf"`} {
			res := do(t, e, http.MethodPost, "/items/extra_data_types", `{
				"start_time": "09:00",
				"end_time": "10:00",
				"repeat_every": `+repeat+`,
				"process_id": "7b1f1c3e-5f4a-4b8e-9a1d-2c3b4d5e6f70"
			}`)

			assert.Equal(t, map[string]string{"repeat_every": "type"}, violations(t, res), repeat)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		res := do(t, e, http.MethodPost, "/items/extra_data_types", `{}`)

		assert.Equal(t, map[string]string{
			"start_time":   "required",
			"end_time":     "required",
			"repeat_every": "required",
			"process_id":   "required",
		}, violations(t, res))
	})
}

func TestSessionCookie(t *testing.T) {
	e := newTestRouter(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			res := do(t, e, method, "/items/cookies/", "", &http.Cookie{Name: "session_id", Value: "xyz"})

			require.Equal(t, http.StatusOK, res.Code)
			assert.Equal(t, map[string]any{
				"session_id": "xyz",
				"message":    service.SessionMessage,
			}, res.body)

			assert.Equal(t, "required", violations(t, do(t, e, method, "/items/cookies", ""))["session_id"])
		})
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	e := newTestRouter(t)

	res := do(t, e, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Route not found", res.body["message"])

	res = do(t, e, http.MethodHead, "/nope", "")
	require.Equal(t, http.StatusNotFound, res.Code)
	assert.Empty(t, res.Body.String())

	res = do(t, e, http.MethodDelete, "/items/5", "")
	require.Equal(t, http.StatusMethodNotAllowed, res.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", res.body["code"])
}

func TestStatus(t *testing.T) {
	e := newTestRouter(t)

	res := do(t, e, http.MethodGet, "/status", "")

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "healthy", res.body["status"])
	assert.Equal(t, "development", res.body["environment"])
	assert.Equal(t, "dev", res.body["version"])

	disabled := newTestRouter(t, func(cfg *config.Config) {
		cfg.Observability.HealthChecks.Enabled = false
	})
	assert.Equal(t, http.StatusNotFound, do(t, disabled, http.MethodGet, "/status", "").Code)
}

func TestOpenAPIDocument(t *testing.T) {
	e := newTestRouter(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := openapi3.NewLoader().LoadFromData(rec.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	for _, path := range []string{"/items/{item_id}", "/items/filter", "/offers", "/items/offers", "/users", "/items/cookies", "/status"} {
		assert.NotNil(t, doc.Paths.Value(path), path)
	}

	itemID := doc.Paths.Value("/items/{item_id}").Get.Parameters.GetByInAndName("path", "item_id")
	require.NotNil(t, itemID)
	assert.Equal(t, float64(1), *itemID.Schema.Value.Min)
	assert.Equal(t, float64(1000), *itemID.Schema.Value.Max)

	user := doc.Components.Schemas["User"].Value
	assert.Equal(t, "Full Name", user.Properties["full_name"].Value.Title)
	assert.ElementsMatch(t, []string{"username", "email", "full_name"}, user.Required)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var asYAML map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &asYAML))
	assert.Equal(t, "3.0.3", asYAML["openapi"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/openapi.json")
}
