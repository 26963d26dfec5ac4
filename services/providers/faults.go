package providers

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"
)

// Fault is the category a failed vendor call falls into
type Fault string

const (
	FaultTimeout      Fault = "timeout"
	FaultTLS          Fault = "tls"
	FaultDNS          Fault = "dns"
	FaultUnauthorized Fault = "unauthorized"
	FaultRateLimited  Fault = "rate_limited"
	FaultStatus       Fault = "status"
	FaultDecode       Fault = "decode"
	FaultOther        Fault = "other"
)

// Classifier maps a transport or SDK error onto a Fault. Each adapter holds
// one so the heuristic can be replaced per vendor.
type Classifier func(err error) Fault

// ClassifyTransport inspects a net/http client error. Structured error
// types are checked first; the message text is only consulted when the
// transport gives nothing better.
func ClassifyTransport(err error) Fault {
	if err == nil {
		return FaultOther
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FaultTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FaultTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return FaultDNS
	}

	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		certInvalid  x509.CertificateInvalidError
	)
	if errors.As(err, &verifyErr) || errors.As(err, &recordErr) ||
		errors.As(err, &authorityErr) || errors.As(err, &hostnameErr) ||
		errors.As(err, &certInvalid) {
		return FaultTLS
	}

	return ClassifyText(err.Error())
}

// ClassifyText is the text-marker fallback for transport faults
func ClassifyText(msg string) Fault {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "timed out"),
		strings.Contains(lower, "deadline exceeded"):
		return FaultTimeout
	case strings.Contains(msg, "SSL"), strings.Contains(lower, "certificate"),
		strings.Contains(lower, "tls:"):
		return FaultTLS
	case strings.Contains(msg, "DNS"), strings.Contains(lower, "resolve"),
		strings.Contains(lower, "no such host"):
		return FaultDNS
	}
	return FaultOther
}
