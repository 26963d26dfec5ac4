package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/task-simplifier/services"
	"github.com/upb/task-simplifier/utils"
)

func TestHandleServiceError(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "not found error",
			err:            services.ErrProviderConfigNotFound,
			expectedStatus: http.StatusNotFound,
			expectedError:  "not_found",
		},
		{
			name:           "validation error",
			err:            services.ErrInvalidInput,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "bad_request",
		},
		{
			name:           "configuration error",
			err:            services.ErrMalformedStore.Wrap(errors.New("unexpected EOF")),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "unprocessable_entity",
		},
		{
			name:           "internal error",
			err:            services.ErrStoreUnavailable,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_error",
		},
		{
			name:           "wrapped internal error",
			err:            services.WrapInternal("failed to save provider configuration", errors.New("disk full")),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_error",
		},
		{
			name:           "unknown error",
			err:            errors.New("some unknown error"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleServiceError(w, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response utils.ErrorResponse
			err := json.NewDecoder(w.Body).Decode(&response)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedError, response.Error)
			assert.NotEmpty(t, response.Message)
		})
	}
}

func TestHandleServiceErrorWithDetails(t *testing.T) {
	logger := zap.NewNop()

	err := services.NewDomainError(services.ErrorTypeValidation, "base URL must start with http:// or https://, got: ftp://x", nil).
		WithDetail("provider", "deepseek").
		WithDetail("field", "base_url")

	w := httptest.NewRecorder()
	HandleServiceError(w, err, logger)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response utils.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	assert.Equal(t, "bad_request", response.Error)
	assert.Equal(t, "base URL must start with http:// or https://, got: ftp://x", response.Message)
	assert.Equal(t, "deepseek", response.Details["provider"])
	assert.Equal(t, "base_url", response.Details["field"])
}

func TestHandleServiceErrorNil(t *testing.T) {
	w := httptest.NewRecorder()

	HandleServiceError(w, nil, zap.NewNop())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleValidationError(t *testing.T) {
	logger := zap.NewNop()

	t.Run("custom validation error", func(t *testing.T) {
		err := utils.NewFieldError("task", "task is required")

		w := httptest.NewRecorder()
		HandleValidationError(w, err, logger)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response utils.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, "bad_request", response.Error)
		assert.Equal(t, "Validation failed", response.Message)
		assert.Equal(t, "task is required", response.Details["task"])
	})

	t.Run("generic error", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleValidationError(w, errors.New("generic validation error"), logger)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response utils.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "generic validation error", response.Message)
	})
}
