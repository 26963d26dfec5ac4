package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/upb/task-simplifier/middleware"
	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/services"
	"github.com/upb/task-simplifier/utils"
)

// SimplifyRequest is the body of POST /api/v1/simplify
type SimplifyRequest struct {
	Task     string `json:"task" validate:"required"`
	Provider string `json:"provider,omitempty" validate:"omitempty,max=32"`
}

// TaskSimplifier rewrites task text with one named provider, or with every
// available provider when provider is empty
type TaskSimplifier interface {
	Simplify(ctx context.Context, task, provider string) models.AggregateResult
}

// SimplifyHandler handles task rewrite requests
type SimplifyHandler struct {
	service TaskSimplifier
	logger  *zap.Logger
}

// NewSimplifyHandler creates a new SimplifyHandler
func NewSimplifyHandler(service TaskSimplifier, logger *zap.Logger) *SimplifyHandler {
	return &SimplifyHandler{
		service: service,
		logger:  logger,
	}
}

// HandleSimplify handles POST /api/v1/simplify
// A failed rewrite is still a 200: the result carries success=false, the
// error and the original task for the caller to fall back on.
func (h *SimplifyHandler) HandleSimplify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req SimplifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleServiceError(w, services.ErrInvalidInput.Wrap(err), h.logger)
		return
	}

	if strings.TrimSpace(req.Task) == "" {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.String("field", "Task"))
		HandleValidationError(w, utils.NewFieldError("Task", services.ErrEmptyTask.Message), h.logger)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	h.logger.Debug("processing simplify request",
		zap.String("request_id", requestID),
		zap.String("provider", req.Provider),
		zap.Int("task_length", len(req.Task)))

	result := h.service.Simplify(ctx, req.Task, req.Provider)

	if err := utils.WriteOK(w, result); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
