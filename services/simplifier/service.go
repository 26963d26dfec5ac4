// Package simplifier validates provider configurations, dispatches rewrite
// requests to adapters and aggregates multi-provider fan-outs.
package simplifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/upb/task-simplifier/internal/observability"
	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/services/providers"
	"github.com/upb/task-simplifier/services/validation"
)

// maxListedErrors is how many provider errors a combined failure spells out
const maxListedErrors = 3

// NoProviderMessage is returned when a fan-out has no candidates
const NoProviderMessage = "no provider configured, add an API configuration first"

// Service runs simplification requests against one immutable snapshot of
// provider configurations
type Service struct {
	configs  map[models.Provider]models.ProviderConfig
	registry *providers.Registry
	selector Selector
	metrics  observability.Metrics
	validate func(models.Provider, models.ProviderConfig) models.ValidationResult
	logger   *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithSelector replaces the fan-out selection policy
func WithSelector(selector Selector) Option {
	return func(s *Service) {
		if selector != nil {
			s.selector = selector
		}
	}
}

// WithMetrics records per-provider attempt metrics
func WithMetrics(metrics observability.Metrics) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewService creates a simplifier over a copy of configs
func NewService(
	configs map[models.Provider]models.ProviderConfig,
	registry *providers.Registry,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	snapshot := make(map[models.Provider]models.ProviderConfig, len(configs))
	for p, cfg := range configs {
		snapshot[p] = cfg
	}

	s := &Service{
		configs:  snapshot,
		registry: registry,
		selector: ShortestText{},
		metrics:  observability.NopMetrics{},
		validate: validation.Validate,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the stored configuration for provider
func (s *Service) Config(provider models.Provider) (models.ProviderConfig, bool) {
	cfg, ok := s.configs[provider]
	return cfg, ok
}

// Simplify rewrites task with a single provider. A provider with no stored
// configuration, or one that fails validation, is rejected without any
// network call.
func (s *Service) Simplify(ctx context.Context, task string, provider models.Provider) models.AggregateResult {
	ctx, requestID := ensureRequestID(ctx)
	logger := observability.LoggerFromContext(ctx, s.logger)
	start := time.Now()

	res := s.call(ctx, task, provider)

	logger.Info("task simplified",
		zap.String("provider", provider.String()),
		zap.Bool("success", res.Success),
		zap.Duration("duration", time.Since(start)),
	)
	return models.AggregateResult{CallResult: res, RequestID: requestID}
}

// SimplifyAny fans task out to every provider concurrently and waits for all
// of them. The winner is chosen by the selector and carries every attempt in
// AllResults; when nothing succeeds the result lists the first failures.
func (s *Service) SimplifyAny(ctx context.Context, task string, candidates []models.Provider) models.AggregateResult {
	ctx, requestID := ensureRequestID(ctx)
	logger := observability.LoggerFromContext(ctx, s.logger)

	if len(candidates) == 0 {
		return models.AggregateResult{
			CallResult: models.NewFailure("", task, models.ErrorKindConfiguration, NoProviderMessage),
			RequestID:  requestID,
		}
	}

	start := time.Now()
	results := make([]models.CallResult, len(candidates))

	// Every goroutine returns nil so no attempt can cancel its siblings.
	var g errgroup.Group
	for i, p := range candidates {
		g.Go(func() error {
			results[i] = s.call(ctx, task, p)
			return nil
		})
	}
	_ = g.Wait()

	idx, ok := s.selector.Select(results)
	if ok && idx >= 0 && idx < len(results) && results[idx].Success {
		winner := results[idx]
		logger.Info("fan-out completed",
			zap.String("winner", winner.Provider.String()),
			zap.Int("candidates", len(candidates)),
			zap.Duration("duration", time.Since(start)),
		)
		return models.AggregateResult{CallResult: winner, AllResults: results, RequestID: requestID}
	}

	logger.Warn("every provider failed",
		zap.Int("candidates", len(candidates)),
		zap.Duration("duration", time.Since(start)),
	)
	failure := models.NewFailure("", task, models.ErrorKindAggregate, CombineErrors(results))
	return models.AggregateResult{CallResult: failure, AllResults: results, RequestID: requestID}
}

// SimplifySync runs Simplify for callers outside any request context
func (s *Service) SimplifySync(task string, provider models.Provider) models.AggregateResult {
	return RunSync(task, func(ctx context.Context) models.AggregateResult {
		return s.Simplify(ctx, task, provider)
	})
}

// SimplifyAnySync runs SimplifyAny for callers outside any request context
func (s *Service) SimplifyAnySync(task string, candidates []models.Provider) models.AggregateResult {
	return RunSync(task, func(ctx context.Context) models.AggregateResult {
		return s.SimplifyAny(ctx, task, candidates)
	})
}

// call runs one provider attempt and always returns a provider-tagged result
func (s *Service) call(ctx context.Context, task string, provider models.Provider) (res models.CallResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = models.NewFailure(provider, task, models.ErrorKindTransport,
				fmt.Sprintf("%s call failed unexpectedly: %v", provider.DisplayName(), r))
		}
		res.Provider = provider
		res.LatencyMs = time.Since(start).Milliseconds()
		s.record(ctx, res, time.Since(start))
	}()

	if !provider.Valid() {
		return models.NewFailure(provider, task, models.ErrorKindConfiguration,
			fmt.Sprintf("unsupported provider: %s", provider))
	}

	cfg, ok := s.configs[provider]
	if !ok {
		return models.NewFailure(provider, task, models.ErrorKindConfiguration,
			fmt.Sprintf("no configuration found for %s, add one on the API configuration page", provider))
	}

	if v := s.validate(provider, cfg); !v.Valid {
		return models.FromValidation(provider, task, v)
	}

	adapter, err := s.registry.Get(provider)
	if err != nil {
		return models.NewFailure(provider, task, models.ErrorKindConfiguration,
			fmt.Sprintf("unsupported provider: %s", provider))
	}

	return adapter.Rewrite(ctx, task, cfg)
}

func (s *Service) record(ctx context.Context, res models.CallResult, d time.Duration) {
	outcome := observability.OutcomeSuccess
	if !res.Success {
		outcome = string(res.ErrorKind)
		observability.LoggerFromContext(ctx, s.logger).Warn("provider attempt failed",
			zap.String("provider", res.Provider.String()),
			zap.String("error_kind", outcome),
			zap.String("field", res.Field),
			zap.String("error", res.Error),
		)
	}

	labels := observability.CallLabels{Provider: res.Provider.String(), Outcome: outcome}
	s.metrics.RecordAttempt(labels, d)
	if res.Usage != nil {
		s.metrics.RecordTokens(labels, res.Usage.PromptTokens, res.Usage.CompletionTokens)
	}
}

// CombineErrors formats the failure summary of a fan-out: a header, one
// bullet per provider for the first three, and a count of the rest
func CombineErrors(results []models.CallResult) string {
	var b strings.Builder
	b.WriteString("All AI providers failed:\n\n")

	for i, r := range results {
		if i == maxListedErrors {
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		name := strings.ToUpper(r.Provider.String())
		if name == "" {
			name = "UNKNOWN"
		}
		msg := r.Error
		if msg == "" {
			msg = "unknown error"
		}
		fmt.Fprintf(&b, "• %s: %s", name, msg)
	}

	if extra := len(results) - maxListedErrors; extra > 0 {
		fmt.Fprintf(&b, "\n\nand %d more...", extra)
	}
	return b.String()
}

// RunSync runs fn to completion on its own goroutine with a fresh context
// and blocks the caller on a one-shot channel. The context is cancelled
// once fn returns, so nothing started by fn outlives the call. A panic in
// fn becomes a failed result carrying task.
func RunSync(task string, fn func(ctx context.Context) models.AggregateResult) models.AggregateResult {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan models.AggregateResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- models.AggregateResult{
					CallResult: models.NewFailure("", task, models.ErrorKindTransport,
						fmt.Sprintf("task simplification failed: %v", r)),
				}
			}
		}()
		done <- fn(ctx)
	}()

	return <-done
}

func ensureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := observability.RequestIDFromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return observability.WithRequestID(ctx, id), id
}
