package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/upb/task-simplifier/internal/observability"
	"github.com/upb/task-simplifier/middleware"
	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/services"
	"github.com/upb/task-simplifier/utils"
)

// ProviderDirectory answers which providers are configured
type ProviderDirectory interface {
	AvailableProviders() []models.Provider
	ProviderStatus() map[models.Provider]bool
}

// ProviderConfigurator edits the configuration store
type ProviderConfigurator interface {
	ProviderDirectory
	SetProviderConfig(ctx context.Context, provider string, cfg models.ProviderConfig) error
	RemoveProvider(ctx context.Context, provider string) error
	Reload(ctx context.Context) error
}

// StatsSource exposes per-provider call statistics
type StatsSource interface {
	Snapshot() []observability.ProviderStats
}

// ProviderStatusEntry is one row of GET /api/v1/providers/status
type ProviderStatusEntry struct {
	Provider    models.Provider `json:"provider"`
	DisplayName string          `json:"display_name"`
	Configured  bool            `json:"configured"`
}

// ProviderHandler handles provider listing and configuration requests
type ProviderHandler struct {
	manager ProviderConfigurator
	stats   StatsSource
	logger  *zap.Logger
}

// NewProviderHandler creates a new ProviderHandler. stats may be nil.
func NewProviderHandler(manager ProviderConfigurator, stats StatsSource, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{
		manager: manager,
		stats:   stats,
		logger:  logger,
	}
}

// HandleList handles GET /api/v1/providers
func (h *ProviderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, nonNil(h.manager.AvailableProviders()))
}

// HandleStatus handles GET /api/v1/providers/status
// Rows follow provider declaration order.
func (h *ProviderHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := h.manager.ProviderStatus()
	entries := make([]ProviderStatusEntry, 0, len(status))
	for _, p := range models.AllProviders() {
		entries = append(entries, ProviderStatusEntry{
			Provider:    p,
			DisplayName: p.DisplayName(),
			Configured:  status[p],
		})
	}
	_ = utils.WriteOK(w, entries)
}

// HandleStats handles GET /api/v1/providers/stats
func (h *ProviderHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := []observability.ProviderStats{}
	if h.stats != nil {
		stats = h.stats.Snapshot()
	}
	_ = utils.WriteOK(w, stats)
}

// HandlePutConfig handles PUT /api/v1/providers/{provider}/config
func (h *ProviderHandler) HandlePutConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)
	provider := chi.URLParam(r, "provider")

	var cfg models.ProviderConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.logger.Warn("failed to parse provider configuration",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleServiceError(w, services.ErrInvalidInput.Wrap(err), h.logger)
		return
	}

	if err := h.manager.SetProviderConfig(ctx, provider, cfg); err != nil {
		h.logger.Warn("failed to save provider configuration",
			zap.String("request_id", requestID),
			zap.String("provider", provider),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("provider configuration updated",
		zap.String("request_id", requestID),
		zap.String("provider", provider))
	_ = utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse{
		Data:    h.manager.ProviderStatus(),
		Message: "configuration saved",
	})
}

// HandleDeleteConfig handles DELETE /api/v1/providers/{provider}/config
func (h *ProviderHandler) HandleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")

	if err := h.manager.RemoveProvider(ctx, provider); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReload handles POST /api/v1/config/reload
func (h *ProviderHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Reload(r.Context()); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, nonNil(h.manager.AvailableProviders()))
}

func nonNil(providers []models.Provider) []models.Provider {
	if providers == nil {
		return []models.Provider{}
	}
	return providers
}
