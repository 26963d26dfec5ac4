package models

import (
	"fmt"
	"strings"
)

// Provider identifies one AI vendor endpoint. The set is closed: every value
// outside the declared constants is rejected by Valid and ParseProvider.
type Provider string

const (
	ProviderDeepSeek Provider = "deepseek"
	ProviderDoubao   Provider = "doubao"
	ProviderYuanbao  Provider = "yuanbao"
	ProviderOpenAI   Provider = "openai"
	ProviderGemini   Provider = "gemini"
	ProviderClaude   Provider = "claude"
	ProviderGLM      Provider = "glm"
	ProviderWenxin   Provider = "wenxin"
	ProviderTongyi   Provider = "tongyi"
)

// allProviders is the declaration order. Multi-provider fan-out and status
// listings iterate in this order.
var allProviders = []Provider{
	ProviderDeepSeek,
	ProviderDoubao,
	ProviderYuanbao,
	ProviderOpenAI,
	ProviderGemini,
	ProviderClaude,
	ProviderGLM,
	ProviderWenxin,
	ProviderTongyi,
}

// Family groups providers by how their adapter talks to the vendor
type Family string

const (
	// FamilyHTTPChat adapters POST a chat-completion envelope over net/http
	FamilyHTTPChat Family = "http_chat"

	// FamilySDKChat adapters use an OpenAI-compatible client library
	FamilySDKChat Family = "sdk_chat"

	// FamilyStub adapters are not wired to a vendor yet
	FamilyStub Family = "stub"
)

// AllProviders returns every provider tag in declaration order
func AllProviders() []Provider {
	out := make([]Provider, len(allProviders))
	copy(out, allProviders)
	return out
}

// ParseProvider converts a store key or caller-supplied name to a Provider
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if !p.Valid() {
		return "", fmt.Errorf("unsupported provider: %s", name)
	}
	return p, nil
}

// Valid reports whether p is one of the declared tags
func (p Provider) Valid() bool {
	switch p {
	case ProviderDeepSeek, ProviderDoubao, ProviderYuanbao, ProviderOpenAI,
		ProviderGemini, ProviderClaude, ProviderGLM, ProviderWenxin, ProviderTongyi:
		return true
	}
	return false
}

// String returns the wire name of the provider
func (p Provider) String() string {
	return string(p)
}

// DisplayName returns the human-readable vendor name used in messages
func (p Provider) DisplayName() string {
	switch p {
	case ProviderDeepSeek:
		return "DeepSeek"
	case ProviderDoubao:
		return "Doubao"
	case ProviderYuanbao:
		return "Tencent Yuanbao"
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderGemini:
		return "Gemini"
	case ProviderClaude:
		return "Claude"
	case ProviderGLM:
		return "GLM"
	case ProviderWenxin:
		return "Baidu Wenxin"
	case ProviderTongyi:
		return "Alibaba Tongyi"
	}
	return string(p)
}

// Family returns the adapter family serving p
func (p Provider) Family() Family {
	switch p {
	case ProviderDeepSeek, ProviderDoubao, ProviderOpenAI, ProviderWenxin:
		return FamilyHTTPChat
	case ProviderYuanbao, ProviderTongyi:
		return FamilySDKChat
	case ProviderGemini, ProviderClaude, ProviderGLM:
		return FamilyStub
	}
	return ""
}
