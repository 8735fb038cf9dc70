package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DefaultSchemaConfig(), cfg.Schema)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, cfg.Primary.Env, cfg.Observability.Environment)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ITEMAPI_PRIMARY__ENV", "production")
	t.Setenv("ITEMAPI_SERVER__PORT", "9090")
	t.Setenv("ITEMAPI_SCHEMA__ITEM_ID__EXCLUSIVE", "true")
	t.Setenv("ITEMAPI_SCHEMA__QUERY__MAX_LENGTH", "20")
	t.Setenv("ITEMAPI_SCHEMA__ITEM__TAX__REQUIRED", "true")
	t.Setenv("ITEMAPI_OBSERVABILITY__LOGGING__SLOW_REQUEST_THRESHOLD", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Schema.ItemID.Exclusive)
	assert.Equal(t, int64(1000), cfg.Schema.ItemID.Max, "keys that are not set keep their default")
	assert.Equal(t, 20, cfg.Schema.Query.MaxLength)
	assert.True(t, cfg.Schema.Item.Tax.Required)
	assert.Equal(t, "Name", cfg.Schema.Item.Name.Title)
	assert.Equal(t, 2*time.Second, cfg.Observability.Logging.SlowRequestThreshold)
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.Equal(t, "info", cfg.Observability.GetLogLevel())
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"inverted item id bounds", "ITEMAPI_SCHEMA__ITEM_ID__MIN", "2000"},
		{"inverted query bounds", "ITEMAPI_SCHEMA__QUERY__MIN_LENGTH", "80"},
		{"unknown log format", "ITEMAPI_OBSERVABILITY__LOGGING__FORMAT", "xml"},
		{"unknown log level", "ITEMAPI_OBSERVABILITY__LOGGING__LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestKeyFromEnv(t *testing.T) {
	assert.Equal(t, "server.read_timeout", keyFromEnv("ITEMAPI_SERVER__READ_TIMEOUT"))
	assert.Equal(t, "schema.item_id.exclusive", keyFromEnv("ITEMAPI_SCHEMA__ITEM_ID__EXCLUSIVE"))
}

func TestBoundsContains(t *testing.T) {
	inclusive := BoundsConfig{Min: 1, Max: 1000}
	assert.True(t, inclusive.Contains(1))
	assert.True(t, inclusive.Contains(1000))
	assert.False(t, inclusive.Contains(0))
	assert.False(t, inclusive.Contains(1001))

	exclusive := BoundsConfig{Min: 1, Max: 1000, Exclusive: true}
	assert.False(t, exclusive.Contains(1))
	assert.False(t, exclusive.Contains(1000))
	assert.True(t, exclusive.Contains(2))
	assert.True(t, exclusive.Contains(999))
}

func TestSchemaValidate(t *testing.T) {
	schema := DefaultSchemaConfig()
	require.NoError(t, schema.Validate())

	schema.ItemID = BoundsConfig{Min: 5, Max: 6, Exclusive: true}
	assert.Error(t, schema.Validate())
}
