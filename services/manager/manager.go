// Package manager owns the provider configuration mapping: it loads it from
// the store, answers availability queries, and routes simplification
// requests to the single-provider or fan-out path.
package manager

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/repositories"
	"github.com/upb/task-simplifier/services"
	"github.com/upb/task-simplifier/services/providers"
	"github.com/upb/task-simplifier/services/simplifier"
	"github.com/upb/task-simplifier/services/validation"
)

const defaultDebounce = 300 * time.Millisecond

// snapshot pairs a configuration mapping with the simplifier built over it,
// so queries and dispatch always see the same generation
type snapshot struct {
	configs map[models.Provider]models.ProviderConfig
	service *simplifier.Service
}

// ConfigManager is safe for concurrent use. A reload swaps in a new
// snapshot; calls already in flight keep the one they started with.
type ConfigManager struct {
	repo       repositories.ConfigRepository
	registry   *providers.Registry
	logger     *zap.Logger
	svcOptions []simplifier.Option
	debounce   time.Duration

	mu      sync.RWMutex
	current snapshot
}

// Option configures a ConfigManager
type Option func(*ConfigManager)

// WithSimplifierOptions passes options to every simplifier the manager builds
func WithSimplifierOptions(opts ...simplifier.Option) Option {
	return func(m *ConfigManager) {
		m.svcOptions = append(m.svcOptions, opts...)
	}
}

// WithDebounce sets how long Watch waits for writes to settle
func WithDebounce(d time.Duration) Option {
	return func(m *ConfigManager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// New creates a manager and performs the initial load. A missing store
// starts empty; an unreadable one is logged and also starts empty.
func New(ctx context.Context, repo repositories.ConfigRepository, registry *providers.Registry, logger *zap.Logger, opts ...Option) *ConfigManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &ConfigManager{
		repo:     repo,
		registry: registry,
		logger:   logger,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.current = m.build(nil)
	if err := m.Reload(ctx); err != nil {
		logger.Error("initial configuration load failed, starting empty", zap.Error(err))
	}
	return m
}

func (m *ConfigManager) build(configs map[models.Provider]models.ProviderConfig) snapshot {
	if configs == nil {
		configs = make(map[models.Provider]models.ProviderConfig)
	}
	return snapshot{
		configs: configs,
		service: simplifier.NewService(configs, m.registry, m.logger, m.svcOptions...),
	}
}

func (m *ConfigManager) snapshot() snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reload re-reads the store. On failure the previous mapping stays active.
func (m *ConfigManager) Reload(ctx context.Context) error {
	configs, err := m.repo.Load(ctx)
	if err != nil {
		m.logger.Error("failed to load provider configuration",
			zap.String("location", m.repo.Location()),
			zap.Error(err),
		)
		if errors.Is(err, repositories.ErrMalformedStore) {
			return services.ErrMalformedStore.Wrap(err)
		}
		return services.ErrStoreUnavailable.Wrap(err)
	}

	next := m.build(configs)

	m.mu.Lock()
	m.current = next
	m.mu.Unlock()

	m.logger.Info("loaded provider configurations",
		zap.String("location", m.repo.Location()),
		zap.Int("count", len(configs)),
	)
	return nil
}

// AvailableProviders returns, in declaration order, the providers whose
// record carries a non-blank API key
func (m *ConfigManager) AvailableProviders() []models.Provider {
	return available(m.snapshot().configs)
}

func available(configs map[models.Provider]models.ProviderConfig) []models.Provider {
	var out []models.Provider
	for _, p := range models.AllProviders() {
		if cfg, ok := configs[p]; ok && cfg.HasAPIKey() {
			out = append(out, p)
		}
	}
	return out
}

// ProviderStatus reports the configured flag for every provider tag
func (m *ConfigManager) ProviderStatus() map[models.Provider]bool {
	configs := m.snapshot().configs
	status := make(map[models.Provider]bool, len(models.AllProviders()))
	for _, p := range models.AllProviders() {
		cfg, ok := configs[p]
		status[p] = ok && cfg.HasAPIKey()
	}
	return status
}

// ProviderConfig returns the stored record for provider
func (m *ConfigManager) ProviderConfig(provider models.Provider) (models.ProviderConfig, bool) {
	cfg, ok := m.snapshot().configs[provider]
	return cfg, ok
}

// Simplify rewrites task. A named provider goes through the single-provider
// path; an empty name fans out to every available provider.
func (m *ConfigManager) Simplify(ctx context.Context, task, provider string) models.AggregateResult {
	snap := m.snapshot()

	if name := strings.TrimSpace(provider); name != "" {
		p, err := models.ParseProvider(name)
		if err != nil {
			return models.AggregateResult{
				CallResult: models.NewFailure(models.Provider(name), task, models.ErrorKindConfiguration, err.Error()),
			}
		}
		return snap.service.Simplify(ctx, task, p)
	}

	candidates := available(snap.configs)
	if len(candidates) == 0 {
		return models.AggregateResult{
			CallResult: models.NewFailure("", task, models.ErrorKindConfiguration, simplifier.NoProviderMessage),
		}
	}
	return snap.service.SimplifyAny(ctx, task, candidates)
}

// SimplifySync is Simplify for callers that hold no context, such as a UI
// event handler. It blocks until the result is ready.
func (m *ConfigManager) SimplifySync(task, provider string) models.AggregateResult {
	return simplifier.RunSync(task, func(ctx context.Context) models.AggregateResult {
		return m.Simplify(ctx, task, provider)
	})
}

// SetProviderConfig validates cfg, writes it to the store and reloads
func (m *ConfigManager) SetProviderConfig(ctx context.Context, provider string, cfg models.ProviderConfig) error {
	p, err := models.ParseProvider(provider)
	if err != nil {
		return services.ErrUnsupportedProvider.Wrap(err).WithDetail("provider", provider)
	}

	if v := validation.Validate(p, cfg); !v.Valid {
		return services.NewDomainError(services.ErrorTypeValidation, v.Error, nil).
			WithDetail("provider", p.String()).
			WithDetail("field", v.Field)
	}

	if err := m.repo.Save(ctx, p, cfg); err != nil {
		if errors.Is(err, repositories.ErrMalformedStore) {
			return services.ErrMalformedStore.Wrap(err)
		}
		return services.WrapInternal("failed to save provider configuration", err)
	}

	m.logger.Info("provider configuration saved", zap.String("provider", p.String()))
	return m.Reload(ctx)
}

// RemoveProvider deletes provider's record and reloads
func (m *ConfigManager) RemoveProvider(ctx context.Context, provider string) error {
	p, err := models.ParseProvider(provider)
	if err != nil {
		return services.ErrUnsupportedProvider.Wrap(err).WithDetail("provider", provider)
	}

	if _, ok := m.ProviderConfig(p); !ok {
		return services.ErrProviderConfigNotFound.Wrap(nil).WithDetail("provider", p.String())
	}

	if err := m.repo.Delete(ctx, p); err != nil {
		return services.WrapInternal("failed to remove provider configuration", err)
	}

	m.logger.Info("provider configuration removed", zap.String("provider", p.String()))
	return m.Reload(ctx)
}
