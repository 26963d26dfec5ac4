package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/upb/task-simplifier/config"
	"github.com/upb/task-simplifier/internal/observability"
	"github.com/upb/task-simplifier/repositories"
	"github.com/upb/task-simplifier/repositories/jsonfile"
	"github.com/upb/task-simplifier/services/manager"
	"github.com/upb/task-simplifier/services/providers"
	"github.com/upb/task-simplifier/services/providers/builtin"
	"github.com/upb/task-simplifier/services/simplifier"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config     *config.Config
	Logger     *zap.Logger
	HTTPClient *http.Client

	// Repositories
	ConfigStore repositories.ConfigRepository

	// Provider Registry
	ProviderRegistry *providers.Registry

	// Services
	Metrics *observability.InMemoryMetrics
	Manager *manager.ConfigManager

	watchCancel context.CancelFunc
	watchDone   chan struct{}
	closeOnce   sync.Once
}

// Option overrides a dependency before wiring
type Option func(*Dependencies)

// WithHTTPClient replaces the shared vendor HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dependencies) {
		if client != nil {
			d.HTTPClient = client
		}
	}
}

// WithRegistry replaces the built-in adapter registry
func WithRegistry(registry *providers.Registry) Option {
	return func(d *Dependencies) {
		d.ProviderRegistry = registry
	}
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		// per-call deadlines come from each provider's timeout setting
		HTTPClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(deps)
	}

	deps.ConfigStore = jsonfile.NewStore(cfg.Store.Path, logger)

	if err := deps.initProviders(); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	deps.Metrics = observability.NewInMemoryMetrics()
	deps.Manager = manager.New(ctx, deps.ConfigStore, deps.ProviderRegistry, logger,
		manager.WithSimplifierOptions(simplifier.WithMetrics(deps.Metrics)),
	)

	if cfg.Store.Watch {
		deps.startWatch()
	}

	logger.Info("all dependencies initialized successfully",
		zap.String("store", deps.ConfigStore.Location()),
		zap.Int("adapters", deps.ProviderRegistry.Count()),
		zap.Int("configured", len(deps.Manager.AvailableProviders())),
	)
	return deps, nil
}

// initProviders builds the adapter registry unless one was injected
func (d *Dependencies) initProviders() error {
	if d.ProviderRegistry != nil {
		return nil
	}
	registry, err := builtin.NewRegistry(d.HTTPClient, d.Logger)
	if err != nil {
		return err
	}
	d.ProviderRegistry = registry
	return nil
}

// startWatch runs the store watcher until Close
func (d *Dependencies) startWatch() {
	ctx, cancel := context.WithCancel(context.Background())
	d.watchCancel = cancel
	d.watchDone = make(chan struct{})

	go func() {
		defer close(d.watchDone)
		if err := d.Manager.Watch(ctx); err != nil {
			d.Logger.Error("configuration watcher stopped", zap.Error(err))
		}
	}()
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	var err error
	d.closeOnce.Do(func() {
		d.Logger.Info("shutting down dependencies")

		if d.watchCancel != nil {
			d.watchCancel()
			select {
			case <-d.watchDone:
			case <-ctx.Done():
				err = fmt.Errorf("configuration watcher did not stop: %w", ctx.Err())
			}
		}

		d.HTTPClient.CloseIdleConnections()

		// Sync logger
		_ = d.Logger.Sync()
	})
	return err
}
