// Package main provides the task-simplifier CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/upb/task-simplifier/app"
	"github.com/upb/task-simplifier/config"
	"github.com/upb/task-simplifier/internal/observability"
)

var version = "0.1.0"

// globalFlags override the environment for one invocation
type globalFlags struct {
	store     string
	logLevel  string
	logFormat string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "task-simplifier",
		Short: "Rewrite task descriptions into short actionable instructions",
		Long: `task-simplifier sends a task description to one or more configured AI
providers and returns the shortest successful rewrite.

Provider credentials live in the JSON configuration store
(TASK_SIMPLIFIER_CONFIG, default ai_config.json).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&flags.store, "store", "", "Path to the provider configuration store")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format (json or console)")

	rootCmd.AddCommand(
		serveCmd(flags),
		simplifyCmd(flags),
		providersCmd(flags),
	)
	return rootCmd
}

// loadConfig reads the environment and applies flag overrides
func loadConfig(ctx context.Context, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.New(ctx)
	if err != nil {
		return nil, err
	}
	if flags.store != "" {
		cfg.Store.Path = flags.store
	}
	if flags.logLevel != "" {
		cfg.Observability.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Observability.LogFormat = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// bootstrap loads configuration, builds the logger and wires dependencies.
// Callers must Close the returned dependencies.
func bootstrap(ctx context.Context, flags *globalFlags) (*app.Dependencies, error) {
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}
	return bootstrapWith(ctx, cfg)
}

// bootstrapWith builds the logger and wires dependencies for cfg
func bootstrapWith(ctx context.Context, cfg *config.Config) (*app.Dependencies, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		return nil, err
	}

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", zap.Error(err))
		_ = logger.Sync()
		return nil, err
	}
	return deps, nil
}
