package models

// ErrorKind tags a failed CallResult with its place in the failure taxonomy
type ErrorKind string

const (
	// ErrorKindConfiguration covers missing or malformed provider settings
	ErrorKindConfiguration ErrorKind = "configuration"

	// ErrorKindTransport covers timeouts, DNS and TLS failures
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindUpstream covers non-success responses from the vendor
	ErrorKindUpstream ErrorKind = "upstream"

	// ErrorKindUnimplemented is returned by stub providers
	ErrorKindUnimplemented ErrorKind = "unimplemented"

	// ErrorKindAggregate marks a fan-out in which every candidate failed
	ErrorKindAggregate ErrorKind = "aggregate"
)

// FieldUnknown is reported when validation itself broke down
const FieldUnknown = "unknown"

// ValidationResult is the outcome of validating one provider configuration
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	Field string `json:"field,omitempty"`
}

// ValidationOK returns a passing ValidationResult
func ValidationOK() ValidationResult {
	return ValidationResult{Valid: true}
}

// ValidationFailed returns a failing ValidationResult. Both field and
// message are always set on failure.
func ValidationFailed(field, message string) ValidationResult {
	if field == "" {
		field = FieldUnknown
	}
	return ValidationResult{Valid: false, Error: message, Field: field}
}

// Usage holds token counters reported by the vendor
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CallResult is the uniform envelope returned by one provider attempt.
// SimplifiedTask always holds either the rewritten text or the original
// task, so callers never receive an empty instruction.
type CallResult struct {
	Success        bool      `json:"success"`
	Provider       Provider  `json:"provider,omitempty"`
	SimplifiedTask string    `json:"simplified_task"`
	Error          string    `json:"error,omitempty"`
	Field          string    `json:"field,omitempty"`
	ErrorKind      ErrorKind `json:"error_kind,omitempty"`
	Usage          *Usage    `json:"usage,omitempty"`
	LatencyMs      int64     `json:"latency_ms,omitempty"`
}

// NewSuccess builds a successful CallResult. An empty rewrite is not a
// success: the vendor is reported as having returned nothing usable and the
// original task is kept.
func NewSuccess(provider Provider, task, simplified string, usage *Usage) CallResult {
	if simplified == "" {
		return NewFailure(provider, task, ErrorKindUpstream,
			provider.DisplayName()+" returned an empty rewrite")
	}
	return CallResult{
		Success:        true,
		Provider:       provider,
		SimplifiedTask: simplified,
		Usage:          usage,
	}
}

// NewFailure builds a failed CallResult that falls back to the original task
func NewFailure(provider Provider, task string, kind ErrorKind, message string) CallResult {
	return CallResult{
		Success:        false,
		Provider:       provider,
		SimplifiedTask: task,
		Error:          message,
		ErrorKind:      kind,
	}
}

// FromValidation folds a failed ValidationResult into a CallResult
func FromValidation(provider Provider, task string, v ValidationResult) CallResult {
	res := NewFailure(provider, task, ErrorKindConfiguration, v.Error)
	res.Field = v.Field
	return res
}

// AggregateResult is what the orchestrator hands back to callers. For a
// single-provider call AllResults is empty; for a fan-out it lists every
// attempt in input order, attached to the winner or to the combined failure.
type AggregateResult struct {
	CallResult
	AllResults []CallResult `json:"all_results,omitempty"`
	RequestID  string       `json:"request_id,omitempty"`
}
