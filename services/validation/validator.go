// Package validation checks one provider's stored configuration before any
// network call is attempted.
package validation

import (
	"fmt"
	"strings"

	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/utils"
)

// Field names reported in ValidationResult.Field
const (
	FieldAPIKey      = "api_key"
	FieldBaseURL     = "base_url"
	FieldModel       = "model"
	FieldTimeout     = "timeout"
	FieldMaxTokens   = "max_tokens"
	FieldTemperature = "temperature"
)

// Numeric bounds, expressed as validator tags
const (
	timeoutRangeTag     = "min=1,max=300"
	maxTokensRangeTag   = "min=1,max=8000"
	temperatureRangeTag = "gte=0,lte=2"
	schemeTag           = "startswith=http://|startswith=https://"
)

// vendorRules holds the provider-specific checks. Providers without an
// entry only get the generic presence and scheme checks.
type vendorRules struct {
	keyPrefix     string
	keyMinLen     int
	urlContains   string
	knownModels   []string
	modelPrefixes []string
	modelHint     string
}

var rulesByProvider = map[models.Provider]vendorRules{
	models.ProviderDeepSeek: {
		keyPrefix:     "sk-",
		keyMinLen:     20,
		urlContains:   "api.deepseek.com",
		knownModels:   []string{"deepseek-chat", "deepseek-coder"},
		modelPrefixes: []string{"deepseek-"},
		modelHint:     "common models: deepseek-chat, deepseek-coder",
	},
	models.ProviderOpenAI: {
		keyPrefix:     "sk-",
		keyMinLen:     20,
		urlContains:   "api.openai.com",
		modelPrefixes: []string{"gpt-3.5-turbo", "gpt-4", "gpt-4-turbo", "gpt-4o"},
		modelHint:     "common models: gpt-3.5-turbo, gpt-4, gpt-4-turbo, gpt-4o",
	},
	models.ProviderDoubao: {
		keyMinLen:     16,
		urlContains:   "volcengine.com",
		modelPrefixes: []string{"ep-", "doubao-"},
		modelHint:     "it should start with ep- or doubao-",
	},
}

// Validate runs the configuration checks for provider in a fixed order and
// stops at the first failure: api_key, vendor key format, base_url, vendor
// URL, model, timeout, max_tokens, temperature. It never panics; a failure
// inside the checks is reported against the "unknown" field.
func Validate(provider models.Provider, cfg models.ProviderConfig) (result models.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.ValidationFailed(models.FieldUnknown,
				fmt.Sprintf("configuration check failed: %v", r))
		}
	}()

	rules, hasRules := rulesByProvider[provider]
	name := provider.DisplayName()

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return models.ValidationFailed(FieldAPIKey,
			fmt.Sprintf("API key for %s is empty, set a valid API key", provider))
	}
	if hasRules {
		if rules.keyPrefix != "" && !utils.CheckVar(apiKey, "startswith="+rules.keyPrefix) {
			return models.ValidationFailed(FieldAPIKey,
				fmt.Sprintf("%s API key format is invalid, expected %sxxxxx", name, rules.keyPrefix))
		}
		if rules.keyMinLen > 0 && !utils.CheckVar(apiKey, fmt.Sprintf("min=%d", rules.keyMinLen)) {
			return models.ValidationFailed(FieldAPIKey,
				fmt.Sprintf("%s API key is too short, check that it is complete", name))
		}
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return models.ValidationFailed(FieldBaseURL,
			fmt.Sprintf("base URL for %s is empty, set a valid endpoint", provider))
	}
	if !utils.CheckVar(baseURL, schemeTag) {
		return models.ValidationFailed(FieldBaseURL,
			fmt.Sprintf("base URL must start with http:// or https://, got: %s", baseURL))
	}
	if hasRules && rules.urlContains != "" && !utils.CheckVar(baseURL, "contains="+rules.urlContains) {
		return models.ValidationFailed(FieldBaseURL,
			fmt.Sprintf("%s base URL is incorrect, it should contain %s, got: %s", name, rules.urlContains, baseURL))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return models.ValidationFailed(FieldModel,
			fmt.Sprintf("model for %s is empty, choose a valid model", provider))
	}
	if hasRules && !rules.acceptsModel(model) {
		return models.ValidationFailed(FieldModel,
			fmt.Sprintf("%s model name is incorrect, %s, got: %s", name, rules.modelHint, model))
	}

	timeout, err := cfg.Timeout.Int(models.DefaultTimeoutSeconds)
	if err != nil {
		return models.ValidationFailed(FieldTimeout,
			fmt.Sprintf("timeout must be a number, got: %s", cfg.Timeout))
	}
	if !utils.CheckVar(timeout, timeoutRangeTag) {
		return models.ValidationFailed(FieldTimeout,
			fmt.Sprintf("timeout is out of range, use 1-300 seconds, got: %d seconds", timeout))
	}

	maxTokens, err := cfg.MaxTokens.Int(models.DefaultMaxTokens)
	if err != nil {
		return models.ValidationFailed(FieldMaxTokens,
			fmt.Sprintf("max_tokens must be a number, got: %s", cfg.MaxTokens))
	}
	if !utils.CheckVar(maxTokens, maxTokensRangeTag) {
		return models.ValidationFailed(FieldMaxTokens,
			fmt.Sprintf("max_tokens is out of range, use 1-8000, got: %d", maxTokens))
	}

	temperature, err := cfg.Temperature.Float(models.DefaultTemperature)
	if err != nil {
		return models.ValidationFailed(FieldTemperature,
			fmt.Sprintf("temperature must be a number, got: %s", cfg.Temperature))
	}
	if !utils.CheckVar(temperature, temperatureRangeTag) {
		return models.ValidationFailed(FieldTemperature,
			fmt.Sprintf("temperature is out of range, use 0-2, got: %v", temperature))
	}

	return models.ValidationOK()
}

func (r vendorRules) acceptsModel(model string) bool {
	for _, known := range r.knownModels {
		if model == known {
			return true
		}
	}
	for _, prefix := range r.modelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return len(r.knownModels) == 0 && len(r.modelPrefixes) == 0
}
