// Package httpchat implements adapters for vendors that expose an
// OpenAI-shaped chat-completions endpoint over plain HTTP.
package httpchat

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/services/providers"
)

// completionsPath is appended to the configured base URL
const completionsPath = "/chat/completions"

var errNoChoices = errors.New("response contains no choices")

// Adapter POSTs a chat-completion request to <base_url>/chat/completions
type Adapter struct {
	provider models.Provider
	poster   *providers.JSONPoster
	logger   *zap.Logger
}

// Option configures an Adapter
type Option func(*Adapter)

// WithHTTPClient overrides the HTTP client used for vendor calls
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		if client != nil {
			a.poster.Client = client
		}
	}
}

// WithClassifier overrides the transport fault classifier
func WithClassifier(classify providers.Classifier) Option {
	return func(a *Adapter) {
		if classify != nil {
			a.poster.Classify = classify
		}
	}
}

// WithLogger sets the adapter logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
			a.poster.Logger = logger
		}
	}
}

// New creates an HTTP-chat adapter for provider
func New(provider models.Provider, opts ...Option) *Adapter {
	a := &Adapter{
		provider: provider,
		poster:   providers.NewJSONPoster(provider, nil, nil),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewDeepSeek creates the DeepSeek adapter
func NewDeepSeek(opts ...Option) *Adapter {
	return New(models.ProviderDeepSeek, opts...)
}

// NewDoubao creates the Doubao (Volcengine Ark) adapter
func NewDoubao(opts ...Option) *Adapter {
	return New(models.ProviderDoubao, opts...)
}

// NewOpenAI creates the OpenAI adapter
func NewOpenAI(opts ...Option) *Adapter {
	return New(models.ProviderOpenAI, opts...)
}

// Provider returns the provider tag
func (a *Adapter) Provider() models.Provider {
	return a.provider
}

// Rewrite performs one chat-completion call and trims the returned text
func (a *Adapter) Rewrite(ctx context.Context, task string, cfg models.ProviderConfig) models.CallResult {
	req := providers.ChatRequest{
		Model:       strings.TrimSpace(cfg.Model),
		Messages:    providers.RewriteMessages(task),
		MaxTokens:   cfg.MaxTokensValue(),
		Temperature: cfg.TemperatureValue(),
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+strings.TrimSpace(cfg.APIKey))

	var resp providers.ChatResponse
	url := cfg.TrimmedBaseURL() + completionsPath
	if perr := a.poster.Post(ctx, url, header, req, &resp, cfg.RequestTimeout()); perr != nil {
		a.logger.Debug("chat completion failed",
			zap.String("provider", a.provider.String()),
			zap.String("fault", string(perr.Fault)),
			zap.Int("status", perr.StatusCode),
		)
		return perr.Result(task)
	}

	if len(resp.Choices) == 0 {
		return providers.NewDecodeError(a.provider, errNoChoices).Result(task)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	return models.NewSuccess(a.provider, task, text, resp.Usage)
}
