package providers

import "regexp"

// redactedMark replaces a credential found in vendor-supplied text
const redactedMark = "[REDACTED]"

type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

// Vendor error bodies and transport errors are quoted back to callers and
// into logs. Some vendors echo the (partially masked) key they rejected.
var redactions = []redaction{
	// Authorization: Bearer <token>
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-\.=*]{8,}`), "${1}" + redactedMark},
	// api_key=..., "access_token": "...", token: ...
	{regexp.MustCompile(`(?i)((?:api[_\-]?key|access[_\-]?token|secret)["']?\s*[:=]\s*["']?)[A-Za-z0-9_\-\.*]{8,}`), "${1}" + redactedMark},
	// sk-... style keys (DeepSeek, OpenAI, Anthropic and compatible gateways)
	{regexp.MustCompile(`\bsk-[A-Za-z0-9_\-*]{8,}`), redactedMark},
	// Google API keys
	{regexp.MustCompile(`\bAIza[0-9A-Za-z\-_]{35}\b`), redactedMark},
	// JWTs
	{regexp.MustCompile(`\beyJ[A-Za-z0-9_\-]+\.eyJ[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+\b`), redactedMark},
}

// RedactSecrets masks credentials in text that came from a vendor or from
// the transport
func RedactSecrets(text string) string {
	for _, r := range redactions {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return text
}
