// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process
// environment, loads them into structured Go types, and
// validates that required values are present so they
// can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for every block, including the request schema.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the ITEMAPI_ prefix. Keys are lowercased and
	"__" marks a nesting level, so single underscores survive inside a key:

	  ITEMAPI_SERVER__READ_TIMEOUT        -> server.read_timeout
	  ITEMAPI_SCHEMA__ITEM_ID__EXCLUSIVE  -> schema.item_id.exclusive
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "ITEMAPI_"

// Config is the root configuration object for the application.
//
// Every block is pre-populated by Default and then overridden by whatever
// keys are present in the environment.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Schema        SchemaConfig         `koanf:"schema" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env     string `koanf:"env" validate:"required"`
	Version string `koanf:"version"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are stored in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	ShutdownTimeout    int      `koanf:"shutdown_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`
}

// Default returns a Config with every value the service can run with locally.
func Default() *Config {
	return &Config{
		Primary: Primary{
			Env:     "development",
			Version: "dev",
		},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			ShutdownTimeout:    10,
			CORSAllowedOrigins: []string{"*"},
		},
		Schema:        DefaultSchemaConfig(),
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of the
// defaults, validates it, and returns the resulting config.
func LoadConfig() (*Config, error) {
	return load(env.Provider(EnvPrefix, ".", keyFromEnv))
}

// keyFromEnv turns ITEMAPI_SERVER__READ_TIMEOUT into server.read_timeout.
func keyFromEnv(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func load(provider koanf.Provider) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(provider, nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Unmarshal decodes onto the pre-populated defaults, so only keys that
	// are present in the environment replace a value.
	mainConfig := Default()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary block.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	if err := mainConfig.Schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema config: %w", err)
	}

	return mainConfig, nil
}
