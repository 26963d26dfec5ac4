package observability

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects per-provider call metrics.
type Metrics interface {
	RecordAttempt(labels CallLabels, duration time.Duration)
	RecordTokens(labels CallLabels, prompt, completion int)
}

// CallLabels contains metric dimensions.
type CallLabels struct {
	Provider string
	Outcome  string // "success" or the failure kind
}

// ProviderStats is a point-in-time view of one provider's counters
type ProviderStats struct {
	Provider         string           `json:"provider"`
	Attempts         int64            `json:"attempts"`
	Successes        int64            `json:"successes"`
	Failures         map[string]int64 `json:"failures,omitempty"`
	TotalLatencyMs   int64            `json:"total_latency_ms"`
	PromptTokens     int64            `json:"prompt_tokens"`
	CompletionTokens int64            `json:"completion_tokens"`
}

// OutcomeSuccess labels successful attempts
const OutcomeSuccess = "success"

// InMemoryMetrics keeps counters in process memory.
type InMemoryMetrics struct {
	mu    sync.Mutex
	stats map[string]*ProviderStats
}

// NewInMemoryMetrics creates an empty collector
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{stats: make(map[string]*ProviderStats)}
}

func (m *InMemoryMetrics) entry(provider string) *ProviderStats {
	s, ok := m.stats[provider]
	if !ok {
		s = &ProviderStats{Provider: provider, Failures: make(map[string]int64)}
		m.stats[provider] = s
	}
	return s
}

// RecordAttempt counts one finished provider attempt
func (m *InMemoryMetrics) RecordAttempt(labels CallLabels, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.entry(labels.Provider)
	s.Attempts++
	s.TotalLatencyMs += duration.Milliseconds()
	if labels.Outcome == OutcomeSuccess {
		s.Successes++
	} else {
		s.Failures[labels.Outcome]++
	}
}

// RecordTokens adds reported token usage
func (m *InMemoryMetrics) RecordTokens(labels CallLabels, prompt, completion int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.entry(labels.Provider)
	s.PromptTokens += int64(prompt)
	s.CompletionTokens += int64(completion)
}

// Snapshot returns a copy of every provider's counters sorted by provider
func (m *InMemoryMetrics) Snapshot() []ProviderStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ProviderStats, 0, len(m.stats))
	for _, s := range m.stats {
		cp := *s
		cp.Failures = make(map[string]int64, len(s.Failures))
		for k, v := range s.Failures {
			cp.Failures[k] = v
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

// NopMetrics discards everything
type NopMetrics struct{}

func (NopMetrics) RecordAttempt(CallLabels, time.Duration) {}
func (NopMetrics) RecordTokens(CallLabels, int, int)       {}
