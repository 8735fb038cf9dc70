// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the request validator built from the schema config
//   - http.Server
//
// It provides constructors and start/shutdown logic to run the application cleanly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/item-api/internal/config"
	"github.com/deppfellow/item-api/internal/validation"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/item-api/internal/logger"
)

// Server is the application container that holds shared, read-only resources.
//
// Nothing on it is mutated while requests are served.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// Validator enforces the request schema. It is safe for concurrent use.
	Validator *validation.Validator

	// StartedAt is reported by the status endpoint.
	StartedAt time.Time

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server. That is done in SetupHTTPServer + Start.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Validator:     validation.New(cfg.Schema),
		StartedAt:     time.Now(),
	}

	logger.Debug().
		Int64("item_id_min", cfg.Schema.ItemID.Min).
		Int64("item_id_max", cfg.Schema.ItemID.Max).
		Bool("item_id_exclusive", cfg.Schema.ItemID.Exclusive).
		Int("query_min_length", cfg.Schema.Query.MinLength).
		Int("query_max_length", cfg.Schema.Query.MaxLength).
		Msg("request schema loaded")

	return server, nil
}

// SetupHTTPServer configures the internal net/http server.
//
// handler is the router/middleware stack, usually an *echo.Echo.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// It requires SetupHTTPServer to be called first. A graceful Shutdown is
// not reported as an error.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("version", s.Config.Primary.Version).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, letting in-flight requests finish until
// ctx expires, then flushes telemetry.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.LoggerService.Shutdown(time.Duration(s.Config.Server.ShutdownTimeout) * time.Second)

	return nil
}
