package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Provider
		wantErr bool
	}{
		{name: "exact", input: "deepseek", want: ProviderDeepSeek},
		{name: "mixed case and blanks", input: "  Tongyi ", want: ProviderTongyi},
		{name: "unknown", input: "mistral", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported provider")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllProviders_CoversClosedSet(t *testing.T) {
	all := AllProviders()
	require.Len(t, all, 9)

	seen := make(map[Provider]bool)
	for _, p := range all {
		assert.True(t, p.Valid(), "provider %s", p)
		assert.NotEmpty(t, p.Family(), "provider %s has no family", p)
		assert.NotEqual(t, string(p), "", "provider %s", p)
		seen[p] = true
	}
	assert.Len(t, seen, 9)

	// callers get a copy
	all[0] = "mutated"
	assert.Equal(t, ProviderDeepSeek, AllProviders()[0])
}

func TestProvider_Family(t *testing.T) {
	assert.Equal(t, FamilyHTTPChat, ProviderDeepSeek.Family())
	assert.Equal(t, FamilyHTTPChat, ProviderWenxin.Family())
	assert.Equal(t, FamilySDKChat, ProviderYuanbao.Family())
	assert.Equal(t, FamilySDKChat, ProviderTongyi.Family())
	assert.Equal(t, FamilyStub, ProviderGemini.Family())
	assert.Equal(t, Family(""), Provider("nope").Family())
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var cfg ProviderConfig
	raw := `{"api_key":"k","timeout":45,"max_tokens":"300","temperature":null}`
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))

	assert.Equal(t, Number("45"), cfg.Timeout)
	assert.Equal(t, Number("300"), cfg.MaxTokens)
	assert.False(t, cfg.Temperature.IsSet())

	assert.Equal(t, 45, cfg.TimeoutSeconds())
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 300, cfg.MaxTokensValue())
	assert.Equal(t, DefaultTemperature, cfg.TemperatureValue())
}

func TestNumber_NonNumericKeptForValidation(t *testing.T) {
	var cfg ProviderConfig
	require.NoError(t, json.Unmarshal([]byte(`{"timeout":"abc","max_tokens":true}`), &cfg))

	_, err := cfg.Timeout.Int(DefaultTimeoutSeconds)
	assert.Error(t, err)
	_, err = cfg.MaxTokens.Int(DefaultMaxTokens)
	assert.Error(t, err)

	// accessors fall back to defaults
	assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds())
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokensValue())
}

func TestNumber_MarshalJSON(t *testing.T) {
	cfg := ProviderConfig{
		APIKey:      "k",
		Timeout:     IntNumber(30),
		Temperature: FloatNumber(0.7),
		MaxTokens:   Number("lots"),
	}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"api_key":"k","base_url":"","model":"","timeout":30,"max_tokens":"lots","temperature":0.7}`, string(data))
}

func TestProviderConfig_Helpers(t *testing.T) {
	cfg := ProviderConfig{APIKey: "   ", BaseURL: " https://api.deepseek.com/v1/ "}
	assert.False(t, cfg.HasAPIKey())
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.TrimmedBaseURL())

	cfg.APIKey = "sk-1"
	assert.True(t, cfg.HasAPIKey())
}

func TestNewSuccess(t *testing.T) {
	usage := &Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5}
	res := NewSuccess(ProviderOpenAI, "original", "short", usage)

	assert.True(t, res.Success)
	assert.Equal(t, ProviderOpenAI, res.Provider)
	assert.Equal(t, "short", res.SimplifiedTask)
	assert.Empty(t, res.Error)
	assert.Equal(t, usage, res.Usage)
}

func TestNewSuccess_EmptyRewriteIsFailure(t *testing.T) {
	res := NewSuccess(ProviderOpenAI, "original", "", nil)

	assert.False(t, res.Success)
	assert.Equal(t, "original", res.SimplifiedTask)
	assert.Equal(t, ErrorKindUpstream, res.ErrorKind)
	assert.Contains(t, res.Error, "OpenAI")
}

func TestFromValidation(t *testing.T) {
	v := ValidationFailed("base_url", "bad url")
	res := FromValidation(ProviderDoubao, "do the thing", v)

	assert.False(t, res.Success)
	assert.Equal(t, "do the thing", res.SimplifiedTask)
	assert.Equal(t, "bad url", res.Error)
	assert.Equal(t, "base_url", res.Field)
	assert.Equal(t, ErrorKindConfiguration, res.ErrorKind)
}

func TestValidationFailed_AlwaysHasField(t *testing.T) {
	v := ValidationFailed("", "boom")
	assert.False(t, v.Valid)
	assert.Equal(t, FieldUnknown, v.Field)
	assert.Equal(t, "boom", v.Error)
}

func TestAggregateResult_JSON(t *testing.T) {
	agg := AggregateResult{
		CallResult: NewSuccess(ProviderGLM, "t", "x", nil),
		AllResults: []CallResult{NewSuccess(ProviderGLM, "t", "x", nil)},
	}

	data, err := json.Marshal(agg)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "glm", decoded["provider"])
	assert.Len(t, decoded["all_results"], 1)
}

func TestNumber_Int(t *testing.T) {
	tests := []struct {
		name    string
		input   Number
		want    int
		wantErr bool
	}{
		{name: "unset takes default", input: "", want: 7},
		{name: "integer", input: "30", want: 30},
		{name: "blanks", input: " 45 ", want: 45},
		{name: "integral decimal", input: "30.0", want: 30},
		{name: "fraction truncates", input: "30.5", want: 30},
		{name: "negative fraction truncates", input: "-2.9", want: -2},
		{name: "exponent", input: "1e2", want: 100},
		{name: "word", input: "abc", wantErr: true},
		{name: "not a number", input: "NaN", wantErr: true},
		{name: "infinite", input: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.Int(7)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumber_MarshalJSON_Canonical(t *testing.T) {
	tests := []struct {
		input Number
		want  string
	}{
		{input: ".5", want: `0.5`},
		{input: "+1", want: `1`},
		{input: "1.", want: `1`},
		{input: "0030", want: `30`},
		{input: "-0.25", want: `-0.25`},
		{input: "1e2", want: `100`},
		{input: "NaN", want: `"NaN"`},
		{input: "Inf", want: `"Inf"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			data, err := json.Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
			assert.True(t, json.Valid(data))
		})
	}
}

func TestProviderConfig_RoundTripLenientNumbers(t *testing.T) {
	cfg := ProviderConfig{APIKey: "k", Timeout: "+45", MaxTokens: "0300", Temperature: ".5"}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var decoded ProviderConfig
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 45, decoded.TimeoutSeconds())
	assert.Equal(t, 300, decoded.MaxTokensValue())
	assert.Equal(t, 0.5, decoded.TemperatureValue())
}
