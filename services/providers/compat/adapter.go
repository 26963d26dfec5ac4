// Package compat implements adapters for vendors that speak the OpenAI
// chat-completions protocol through a compatibility endpoint (Tencent
// Hunyuan for Yuanbao, DashScope compatible mode for Tongyi).
package compat

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/services/providers"
)

// Adapter builds a go-openai client per call, scoped to that call's
// configuration
type Adapter struct {
	provider models.Provider
	client   *http.Client
	classify providers.Classifier
	logger   *zap.Logger
}

// Option configures an Adapter
type Option func(*Adapter)

// WithHTTPClient sets the transport used by the per-call SDK client
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		a.client = client
	}
}

// WithClassifier overrides the SDK fault classifier
func WithClassifier(classify providers.Classifier) Option {
	return func(a *Adapter) {
		if classify != nil {
			a.classify = classify
		}
	}
}

// WithLogger sets the adapter logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an SDK-backed adapter for provider
func New(provider models.Provider, opts ...Option) *Adapter {
	a := &Adapter{
		provider: provider,
		classify: Classify,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewYuanbao creates the Tencent Yuanbao (Hunyuan) adapter
func NewYuanbao(opts ...Option) *Adapter {
	return New(models.ProviderYuanbao, opts...)
}

// NewTongyi creates the Alibaba Tongyi (Qwen) adapter
func NewTongyi(opts ...Option) *Adapter {
	return New(models.ProviderTongyi, opts...)
}

// Provider returns the provider tag
func (a *Adapter) Provider() models.Provider {
	return a.provider
}

// Rewrite issues one chat completion through the SDK
func (a *Adapter) Rewrite(ctx context.Context, task string, cfg models.ProviderConfig) models.CallResult {
	timeout := cfg.RequestTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientConfig := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	clientConfig.BaseURL = cfg.TrimmedBaseURL()
	httpClient := a.client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	clientConfig.HTTPClient = httpClient
	client := openai.NewClientWithConfig(clientConfig)

	messages := providers.RewriteMessages(task)
	req := openai.ChatCompletionRequest{
		Model:       strings.TrimSpace(cfg.Model),
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
		MaxTokens:   cfg.MaxTokensValue(),
		Temperature: float32(cfg.TemperatureValue()),
	}
	for i, msg := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		fault := a.classify(err)
		a.logger.Debug("sdk chat completion failed",
			zap.String("provider", a.provider.String()),
			zap.String("fault", string(fault)),
			zap.String("error", providers.RedactSecrets(err.Error())),
		)
		return providers.NewFaultError(a.provider, fault, cfg.TimeoutSeconds(), err).Result(task)
	}

	if len(resp.Choices) == 0 {
		return providers.NewDecodeError(a.provider, errors.New("response contains no choices")).Result(task)
	}

	usage := &models.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	return models.NewSuccess(a.provider, task, text, usage)
}
