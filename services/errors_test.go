package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeNotFound, "resource not found", baseErr)

	assert.Equal(t, ErrorTypeNotFound, domainErr.Type)
	assert.Equal(t, "resource not found", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
	assert.NotNil(t, domainErr.Details)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeConfiguration,
				Message: "configuration store is malformed",
				Err:     errors.New("unexpected end of JSON input"),
			},
			wantMsg: "configuration: configuration store is malformed (unexpected end of JSON input)",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypeValidation,
				Message: "task cannot be empty",
			},
			wantMsg: "validation: task cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	baseErr := errors.New("disk full")
	domainErr := NewDomainError(ErrorTypeInternal, "save failed", baseErr)

	assert.Equal(t, baseErr, errors.Unwrap(domainErr))
	assert.True(t, errors.Is(domainErr, baseErr))
}

func TestDomainError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "same type matches",
			err:    NewDomainError(ErrorTypeValidation, "other message", nil),
			target: ErrUnsupportedProvider,
			want:   true,
		},
		{
			name:   "different type does not match",
			err:    NewDomainError(ErrorTypeInternal, "x", nil),
			target: ErrInvalidInput,
			want:   false,
		},
		{
			name:   "wrapped domain error matches",
			err:    fmt.Errorf("reload: %w", NewDomainError(ErrorTypeConfiguration, "bad", nil)),
			target: ErrMalformedStore,
			want:   true,
		},
		{
			name:   "plain error target",
			err:    ErrStoreUnavailable,
			target: errors.New("internal"),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeValidation, "invalid provider configuration", nil).
		WithDetail("field", "api_key").
		WithDetail("provider", "deepseek")

	assert.Equal(t, "api_key", err.Details["field"])
	assert.Equal(t, "deepseek", err.Details["provider"])

	bare := &DomainError{Type: ErrorTypeValidation}
	bare.WithDetail("k", "v")
	assert.Equal(t, "v", bare.Details["k"])
}

func TestErrorTypeCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
	}{
		{name: "not found", err: ErrProviderConfigNotFound, checker: IsNotFoundError},
		{name: "validation", err: ErrEmptyTask, checker: IsValidationError},
		{name: "configuration", err: ErrMalformedStore, checker: IsConfigurationError},
		{name: "internal", err: ErrStoreUnavailable, checker: IsInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.checker(tt.err))
			assert.True(t, tt.checker(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.checker(errors.New("plain")))
			assert.False(t, tt.checker(nil))
		})
	}
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeValidation, GetErrorType(ErrUnsupportedProvider))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
}

func TestGetErrorDetails(t *testing.T) {
	err := NewDomainError(ErrorTypeValidation, "bad", nil).WithDetail("field", "timeout")

	details := GetErrorDetails(fmt.Errorf("outer: %w", err))
	require.NotNil(t, details)
	assert.Equal(t, "timeout", details["field"])

	assert.Nil(t, GetErrorDetails(errors.New("plain")))
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("permission denied")

	err := WrapInternal("cannot write store", base)
	assert.True(t, IsInternalError(err))
	assert.Contains(t, err.Error(), "permission denied")
}

func TestDomainError_WrapCopiesSentinel(t *testing.T) {
	base := errors.New("unexpected end of JSON input")

	err := ErrMalformedStore.Wrap(base).WithDetail("location", "ai_config.json")

	assert.True(t, IsConfigurationError(err))
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, ErrMalformedStore.Message, err.Message)
	assert.Equal(t, "ai_config.json", err.Details["location"])
	assert.Empty(t, ErrMalformedStore.Details, "sentinel stays untouched")
	assert.Nil(t, ErrMalformedStore.Err)
}
