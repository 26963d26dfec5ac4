package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/upb/task-simplifier/internal/observability"
	"github.com/upb/task-simplifier/models"
)

// MockTaskSimplifier is a mock implementation of TaskSimplifier
type MockTaskSimplifier struct {
	mock.Mock
}

func (m *MockTaskSimplifier) Simplify(ctx context.Context, task, provider string) models.AggregateResult {
	args := m.Called(ctx, task, provider)
	return args.Get(0).(models.AggregateResult)
}

// MockProviderManager is a mock implementation of ProviderConfigurator
type MockProviderManager struct {
	mock.Mock
}

func (m *MockProviderManager) AvailableProviders() []models.Provider {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Provider)
}

func (m *MockProviderManager) ProviderStatus() map[models.Provider]bool {
	args := m.Called()
	return args.Get(0).(map[models.Provider]bool)
}

func (m *MockProviderManager) SetProviderConfig(ctx context.Context, provider string, cfg models.ProviderConfig) error {
	args := m.Called(ctx, provider, cfg)
	return args.Error(0)
}

func (m *MockProviderManager) RemoveProvider(ctx context.Context, provider string) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderManager) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAdapterCoverage is a mock implementation of AdapterCoverage
type MockAdapterCoverage struct {
	mock.Mock
}

func (m *MockAdapterCoverage) Missing() []models.Provider {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Provider)
}

type staticStats []observability.ProviderStats

func (s staticStats) Snapshot() []observability.ProviderStats { return s }
