package compat

import (
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/upb/task-simplifier/services/providers"
)

// Classify maps a go-openai error onto a Fault. Status codes carried by the
// SDK error types win; the error text is checked for unauthorized, timeout
// and rate-limit markers, in that order, only when no status is available.
func Classify(err error) providers.Fault {
	if err == nil {
		return providers.FaultOther
	}

	status := statusCode(err)
	if fault, ok := classifyStatus(status); ok {
		return fault
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") {
		return providers.FaultUnauthorized
	}

	switch transport := providers.ClassifyTransport(err); transport {
	case providers.FaultTimeout, providers.FaultTLS, providers.FaultDNS:
		return transport
	}

	if strings.Contains(lower, "rate limit") {
		return providers.FaultRateLimited
	}
	if status != 0 {
		return providers.FaultStatus
	}
	return providers.FaultOther
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func classifyStatus(status int) (providers.Fault, bool) {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return providers.FaultUnauthorized, true
	case http.StatusTooManyRequests:
		return providers.FaultRateLimited, true
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return providers.FaultTimeout, true
	}
	return "", false
}
