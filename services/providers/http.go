package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/upb/task-simplifier/models"
)

// maxErrorBody caps how much of a failed response body is quoted back
const maxErrorBody = 64 << 10

// JSONPoster issues one JSON POST per call on behalf of a single provider
type JSONPoster struct {
	Provider models.Provider
	Client   *http.Client
	Classify Classifier
	Logger   *zap.Logger
}

// NewJSONPoster creates a poster with a default client and the transport
// classifier
func NewJSONPoster(provider models.Provider, client *http.Client, logger *zap.Logger) *JSONPoster {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONPoster{
		Provider: provider,
		Client:   client,
		Classify: ClassifyTransport,
		Logger:   logger,
	}
}

// Post sends payload to url and decodes a 200 response into out. The
// request is bounded by timeout; header may be nil.
func (p *JSONPoster) Post(ctx context.Context, url string, header http.Header, payload, out interface{}, timeout time.Duration) *ProviderError {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	timeoutSeconds := int(timeout / time.Second)

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return NewFaultError(p.Provider, FaultOther, timeoutSeconds, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return NewFaultError(p.Provider, FaultOther, timeoutSeconds, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	httpResp, err := p.Client.Do(httpReq)
	if err != nil {
		fault := p.Classify(err)
		p.Logger.Debug("vendor request failed",
			zap.String("provider", p.Provider.String()),
			zap.String("fault", string(fault)),
			zap.String("error", RedactSecrets(err.Error())),
		)
		return NewFaultError(p.Provider, fault, timeoutSeconds, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return NewStatusError(p.Provider, httpResp.StatusCode, strings.TrimSpace(string(body)))
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return NewFaultError(p.Provider, p.Classify(err), timeoutSeconds, err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return NewDecodeError(p.Provider, err)
	}

	return nil
}
