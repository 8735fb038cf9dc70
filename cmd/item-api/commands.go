package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/item-api/internal/config"
	"github.com/deppfellow/item-api/internal/handler"
	"github.com/deppfellow/item-api/internal/logger"
	"github.com/deppfellow/item-api/internal/model"
	"github.com/deppfellow/item-api/internal/router"
	"github.com/deppfellow/item-api/internal/server"
	"github.com/deppfellow/item-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "item-api",
		Short:         "Validating echo service for items, offers, users and sessions",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newServeCommand(),
		newOpenAPICommand(),
		newVersionCommand(),
	)

	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func newOpenAPICommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(false)
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "json":
				data, err = a.handlers.OpenAPI.Generator().JSON()
			case "yaml":
				data, err = a.handlers.OpenAPI.Generator().YAML()
			default:
				return fmt.Errorf("unknown format %q, expected json or yaml", format)
			}
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

// app is the fully wired service.
type app struct {
	server   *server.Server
	handlers *handler.Handlers
}

// build wires config, logging, server, services, handlers and the router.
// New Relic and logging are only started when serving; the other commands
// write their own output to stdout.
func build(serving bool) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Primary.Version == "dev" {
		cfg.Primary.Version = Version
	}

	model.SetDecimalAsNumber(cfg.Schema.DecimalAsNumber)

	var loggerService *logger.LoggerService
	log := zerolog.Nop()
	if serving {
		loggerService, err = logger.NewLoggerService(cfg.Observability)
		if err != nil {
			return nil, err
		}
		log = logger.NewLoggerWithService(cfg.Observability, loggerService)
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return nil, err
	}

	services := service.NewServices(srv)
	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	return &app{server: srv, handlers: handlers}, nil
}

// serve runs the server until SIGINT or SIGTERM, then drains in-flight
// requests for at most the configured shutdown timeout.
func serve(parent context.Context) error {
	a, err := build(true)
	if err != nil {
		return err
	}
	srv := a.server

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			srv.Logger.Error().Err(err).Msg("server stopped unexpectedly")
		}
		return err
	case <-ctx.Done():
	}

	srv.Logger.Info().Msg("shutting down server")

	timeout := time.Duration(srv.Config.Server.ShutdownTimeout) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		srv.Logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	srv.Logger.Info().Msg("server exited properly")
	return nil
}
