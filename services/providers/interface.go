package providers

import (
	"context"
	"fmt"

	"github.com/upb/task-simplifier/models"
)

// Adapter rewrites a task description through one vendor. Rewrite never
// returns an error and never panics on vendor failures: every outcome is a
// CallResult, and a failed result carries the original task as fallback.
type Adapter interface {
	// Provider returns the tag this adapter serves
	Provider() models.Provider

	// Rewrite sends task to the vendor described by cfg. The configured
	// timeout applies to this call alone.
	Rewrite(ctx context.Context, task string, cfg models.ProviderConfig) models.CallResult
}

// SystemPrompt is the fixed instruction sent ahead of every task
const SystemPrompt = "You are a professional task-polishing assistant. Rewrite the user's " +
	"natural-language task description into a concise, explicit, executable automation " +
	"instruction. Keep the key actions and remove redundant description."

// UserPrompt wraps the task for chat-style vendors
func UserPrompt(task string) string {
	return "Rewrite the following task:\n" + task
}

// PolishPrompt is used by vendors that take a single user turn with no
// system message
func PolishPrompt(task string) string {
	return "Polish the following task description so it is clearer and easier to " +
		"understand, keeping its meaning but phrasing it more professionally:\n\n" + task
}

// RewriteMessages returns the system and user turns for task
func RewriteMessages(task string) []Message {
	return []Message{
		{Role: RoleSystem, Content: SystemPrompt},
		{Role: RoleUser, Content: UserPrompt(task)},
	}
}

// Message roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatRequest is the chat-completion envelope POSTed to HTTP-chat vendors
type ChatRequest struct {
	// Model identifier (e.g., "deepseek-chat", "gpt-4o")
	Model string `json:"model"`

	// Messages in the conversation
	Messages []Message `json:"messages"`

	// MaxTokens limits the response length
	MaxTokens int `json:"max_tokens"`

	// Temperature controls randomness (0.0 to 2.0). Zero is a valid setting
	// and is always sent.
	Temperature float64 `json:"temperature"`
}

// Message represents a single message in a conversation
type Message struct {
	// Role can be "system", "user", or "assistant"
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`
}

// ChatResponse is the success envelope returned by HTTP-chat vendors
type ChatResponse struct {
	ID      string        `json:"id"`
	Model   string        `json:"model"`
	Choices []Choice      `json:"choices"`
	Usage   *models.Usage `json:"usage,omitempty"`
}

// Choice represents a completion choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ProviderError describes one failed vendor call before it is flattened
// into a CallResult
type ProviderError struct {
	// Provider that generated the error
	Provider models.Provider

	// Fault is the classified failure category
	Fault Fault

	// Message is the human-readable, provider-tagged description
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return RedactSecrets(e.Message)
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Kind maps the fault onto the CallResult failure taxonomy
func (e *ProviderError) Kind() models.ErrorKind {
	switch e.Fault {
	case FaultTimeout, FaultTLS, FaultDNS, FaultOther:
		return models.ErrorKindTransport
	}
	return models.ErrorKindUpstream
}

// Result folds the error into a failed CallResult that keeps task
func (e *ProviderError) Result(task string) models.CallResult {
	return models.NewFailure(e.Provider, task, e.Kind(), RedactSecrets(e.Message))
}

// NewStatusError reports a non-success HTTP response together with its body
func NewStatusError(provider models.Provider, status int, body string) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Fault:      FaultStatus,
		Message:    fmt.Sprintf("API call failed (%d): %s", status, body),
		StatusCode: status,
	}
}

// NewDecodeError reports a response that could not be interpreted
func NewDecodeError(provider models.Provider, cause error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Fault:    FaultDecode,
		Message:  fmt.Sprintf("%s returned an unreadable response: %v", provider.DisplayName(), cause),
		Cause:    cause,
	}
}

// NewFaultError builds the provider-tagged message for a classified fault.
// timeoutSeconds is quoted in timeout messages.
func NewFaultError(provider models.Provider, fault Fault, timeoutSeconds int, cause error) *ProviderError {
	name := provider.DisplayName()
	var msg string
	switch fault {
	case FaultTimeout:
		msg = fmt.Sprintf("%s API request timed out (%ds), check the network or raise the timeout setting", name, timeoutSeconds)
	case FaultTLS:
		msg = fmt.Sprintf("%s SSL certificate verification failed: %v", name, cause)
	case FaultDNS:
		msg = fmt.Sprintf("%s domain name resolution failed: %v", name, cause)
	case FaultUnauthorized:
		msg = fmt.Sprintf("%s API key is invalid or expired, check that the API key is correct", name)
	case FaultRateLimited:
		msg = fmt.Sprintf("%s API rate limit exceeded, try again later", name)
	case FaultStatus:
		msg = fmt.Sprintf("%s API call failed: %v", name, cause)
	default:
		fault = FaultOther
		msg = fmt.Sprintf("%s API call raised an exception: %v", name, cause)
	}
	return &ProviderError{
		Provider: provider,
		Fault:    fault,
		Message:  msg,
		Cause:    cause,
	}
}
