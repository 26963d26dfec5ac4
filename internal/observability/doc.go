// Package observability provides structured logging, request ID propagation
// and in-process per-provider call metrics for the task simplifier.
//
// This package implements:
//   - zap logger construction from level and format settings
//   - Request ID propagation through context.Context
//   - Per-provider attempt, outcome, latency and token counters
package observability
