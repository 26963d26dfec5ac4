package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/upb/task-simplifier/app"
	"github.com/upb/task-simplifier/routes"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		host  string
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("watch") {
				cfg.Store.Watch = watch
			}

			deps, err := bootstrapWith(ctx, cfg)
			if err != nil {
				return err
			}
			return serve(ctx, deps)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides SERVER_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides SERVER_PORT)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the configuration store when it changes")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully and closes deps
func serve(ctx context.Context, deps *app.Dependencies) error {
	cfg := deps.Config
	logger := deps.Logger

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      routes.SetupRoutes(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("task-simplifier listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", zap.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := deps.Close(shutdownCtx); err != nil {
		logger.Error("failed to close dependencies", zap.Error(err))
	}

	if serveErr != nil {
		return fmt.Errorf("server error: %w", serveErr)
	}
	return nil
}
