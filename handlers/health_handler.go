package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/utils"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// AdapterCoverage reports providers that have no adapter registered
type AdapterCoverage interface {
	Missing() []models.Provider
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	adapters  AdapterCoverage
	providers ProviderDirectory
	logger    *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(adapters AdapterCoverage, providers ProviderDirectory, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		adapters:  adapters,
		providers: providers,
		logger:    logger,
	}
}

// HandleHealth handles GET /healthz
// Basic health check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteOK(w, response)
}

// HandleReadiness handles GET /readyz
// Ready once every provider tag has an adapter. Having no provider
// configured is reported but does not fail readiness: the configuration
// page is how the first provider gets added.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	ready := true

	if missing := h.adapters.Missing(); len(missing) > 0 {
		h.logger.Warn("adapter registry incomplete", zap.Any("missing", missing))
		checks["adapters"] = "incomplete"
		ready = false
	} else {
		checks["adapters"] = "healthy"
	}

	if len(h.providers.AvailableProviders()) == 0 {
		checks["providers"] = "none_configured"
	} else {
		checks["providers"] = "configured"
	}

	response := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if !ready {
		response.Status = "not_ready"
		_ = utils.WriteJSON(w, http.StatusServiceUnavailable, utils.SuccessResponse{Data: response})
		return
	}
	_ = utils.WriteOK(w, response)
}
