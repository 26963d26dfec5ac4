// Package stub holds adapters for vendors that are listed in the provider
// set but not wired to a backend yet.
package stub

import (
	"context"

	"github.com/upb/task-simplifier/models"
)

// Adapter always reports that the vendor integration is pending
type Adapter struct {
	provider models.Provider
}

// New creates a stub adapter for provider
func New(provider models.Provider) *Adapter {
	return &Adapter{provider: provider}
}

// NewGemini creates the Google Gemini stub
func NewGemini() *Adapter { return New(models.ProviderGemini) }

// NewClaude creates the Anthropic Claude stub
func NewClaude() *Adapter { return New(models.ProviderClaude) }

// NewGLM creates the Zhipu GLM stub
func NewGLM() *Adapter { return New(models.ProviderGLM) }

// Provider returns the provider tag
func (a *Adapter) Provider() models.Provider {
	return a.provider
}

// Rewrite returns an unimplemented failure carrying the original task
func (a *Adapter) Rewrite(_ context.Context, task string, _ models.ProviderConfig) models.CallResult {
	return models.NewFailure(a.provider, task, models.ErrorKindUnimplemented, NotImplementedMessage(a.provider))
}

// NotImplementedMessage is the fixed failure text for provider
func NotImplementedMessage(provider models.Provider) string {
	return provider.DisplayName() + " API not yet implemented"
}
