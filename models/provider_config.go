package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when a stored record leaves a numeric field out
const (
	DefaultTimeoutSeconds = 30
	DefaultMaxTokens      = 200
	DefaultTemperature    = 0.1
)

// Number holds a numeric setting exactly as it appeared in the store. The
// store is hand-edited and GUI-written, so a field may arrive as a JSON
// number, a quoted string, or something that is not a number at all; parsing
// is deferred to validation so that a bad value is reported per field
// instead of failing the whole load.
type Number string

// UnmarshalJSON accepts any JSON value and keeps its text
func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*n = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*n = Number(s)
	default:
		*n = Number(trimmed)
	}
	return nil
}

// MarshalJSON writes numbers unquoted in canonical form, so "+1", ".5" and
// "0030" come out as 1, 0.5 and 30. Anything else is written as a string.
func (n Number) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return []byte("null"), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return []byte(strconv.FormatInt(i, 10)), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	return json.Marshal(string(n))
}

// IsSet reports whether the store supplied a value
func (n Number) IsSet() bool {
	return strings.TrimSpace(string(n)) != ""
}

// Int parses n as an integer, returning def when n is unset. Decimal forms
// are truncated toward zero, so 30.5 reads as 30.
func (n Number) Int(def int) (int, error) {
	if !n.IsSet() {
		return def, nil
	}
	s := strings.TrimSpace(string(n))
	v, err := strconv.Atoi(s)
	if err == nil {
		return v, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return 0, err
	}
	return int(math.Trunc(f)), nil
}

// Float parses n as a float, returning def when n is unset
func (n Number) Float(def float64) (float64, error) {
	if !n.IsSet() {
		return def, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
}

// IntNumber formats an int for a ProviderConfig field
func IntNumber(v int) Number {
	return Number(strconv.Itoa(v))
}

// FloatNumber formats a float for a ProviderConfig field
func FloatNumber(v float64) Number {
	return Number(strconv.FormatFloat(v, 'f', -1, 64))
}

// ProviderConfig is one provider's record in the configuration store. It is
// passed by value into every call and never mutated during dispatch.
type ProviderConfig struct {
	APIKey      string `json:"api_key"`
	BaseURL     string `json:"base_url"`
	Model       string `json:"model"`
	Timeout     Number `json:"timeout,omitempty"`
	MaxTokens   Number `json:"max_tokens,omitempty"`
	Temperature Number `json:"temperature,omitempty"`
}

// HasAPIKey reports whether the record carries a non-blank key. This is the
// "configured" test used by availability and status queries.
func (c ProviderConfig) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// TimeoutSeconds returns the configured timeout, or the default when the
// value is unset or unparsable
func (c ProviderConfig) TimeoutSeconds() int {
	v, err := c.Timeout.Int(DefaultTimeoutSeconds)
	if err != nil {
		return DefaultTimeoutSeconds
	}
	return v
}

// RequestTimeout returns TimeoutSeconds as a duration
func (c ProviderConfig) RequestTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds()) * time.Second
}

// MaxTokensValue returns the configured token limit or the default
func (c ProviderConfig) MaxTokensValue() int {
	v, err := c.MaxTokens.Int(DefaultMaxTokens)
	if err != nil {
		return DefaultMaxTokens
	}
	return v
}

// TemperatureValue returns the configured temperature or the default
func (c ProviderConfig) TemperatureValue() float64 {
	v, err := c.Temperature.Float(DefaultTemperature)
	if err != nil {
		return DefaultTemperature
	}
	return v
}

// TrimmedBaseURL returns the base URL without surrounding blanks or a
// trailing slash, ready for path joining
func (c ProviderConfig) TrimmedBaseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}
