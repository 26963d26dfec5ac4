package providers

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/upb/task-simplifier/models"
)

var (
	// ErrAdapterNotFound is returned when no adapter is registered for a provider
	ErrAdapterNotFound = errors.New("adapter not found")

	// ErrAdapterAlreadyRegistered is returned when trying to register a duplicate adapter
	ErrAdapterAlreadyRegistered = errors.New("adapter already registered")

	// ErrUnknownProvider is returned for adapters whose tag is outside the provider set
	ErrUnknownProvider = errors.New("unknown provider")
)

// Registry maps each provider tag to the adapter serving it
type Registry struct {
	mu       sync.RWMutex
	adapters map[models.Provider]Adapter
}

// NewRegistry creates an empty adapter registry
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[models.Provider]Adapter),
	}
}

// Register adds an adapter instance
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return errors.New("adapter cannot be nil")
	}

	provider := adapter.Provider()
	if !provider.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[provider]; exists {
		return fmt.Errorf("%w: %s", ErrAdapterAlreadyRegistered, provider)
	}

	r.adapters[provider] = adapter
	return nil
}

// Get retrieves the adapter for provider
func (r *Registry) Get(provider models.Provider) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[provider]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrAdapterNotFound, provider)
	}

	return adapter, nil
}

// Providers returns the registered tags in declaration order
func (r *Registry) Providers() []models.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Provider, 0, len(r.adapters))
	for _, p := range models.AllProviders() {
		if _, ok := r.adapters[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Count returns the number of registered adapters
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.adapters)
}

// Missing returns the provider tags with no adapter
func (r *Registry) Missing() []models.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []models.Provider
	for _, p := range models.AllProviders() {
		if _, ok := r.adapters[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}

// RegistryBuilder collects adapters and checks that the provider set is
// fully covered
type RegistryBuilder struct {
	adapters []Adapter
}

// NewRegistryBuilder creates a new registry builder
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// WithAdapter queues adapters for registration
func (rb *RegistryBuilder) WithAdapter(adapters ...Adapter) *RegistryBuilder {
	rb.adapters = append(rb.adapters, adapters...)
	return rb
}

// Build registers every queued adapter and fails when any provider tag is
// left without one
func (rb *RegistryBuilder) Build() (*Registry, error) {
	registry := NewRegistry()
	for _, adapter := range rb.adapters {
		if err := registry.Register(adapter); err != nil {
			return nil, fmt.Errorf("failed to register adapter: %w", err)
		}
	}

	if missing := registry.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, p := range missing {
			names[i] = p.String()
		}
		return nil, fmt.Errorf("registry incomplete, no adapter for: %s", strings.Join(names, ", "))
	}

	return registry, nil
}
