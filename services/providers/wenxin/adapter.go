// Package wenxin implements the Baidu Wenxin (Qianfan) adapter. Wenxin takes
// a single user turn, posts straight to the configured endpoint and returns
// the text in a top-level "result" field.
package wenxin

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/services/providers"
)

// accessTokenHostMarker selects body-token authentication for classic
// Wenxin endpoints; other hosts get a bearer header
const accessTokenHostMarker = "wenxin"

type request struct {
	Messages        []providers.Message `json:"messages"`
	Temperature     float64             `json:"temperature"`
	MaxOutputTokens int                 `json:"max_output_tokens"`
	AccessToken     string              `json:"access_token,omitempty"`
}

type response struct {
	ID        string        `json:"id"`
	Result    string        `json:"result"`
	Usage     *models.Usage `json:"usage,omitempty"`
	ErrorCode int           `json:"error_code,omitempty"`
	ErrorMsg  string        `json:"error_msg,omitempty"`
}

// Adapter calls the Wenxin chat endpoint
type Adapter struct {
	poster *providers.JSONPoster
	logger *zap.Logger
}

// New creates the Wenxin adapter. A nil client or logger gets a default.
func New(client *http.Client, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		poster: providers.NewJSONPoster(models.ProviderWenxin, client, logger),
		logger: logger,
	}
}

// Provider returns the provider tag
func (a *Adapter) Provider() models.Provider {
	return models.ProviderWenxin
}

// Rewrite posts the task and reads the "result" field
func (a *Adapter) Rewrite(ctx context.Context, task string, cfg models.ProviderConfig) models.CallResult {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	apiKey := strings.TrimSpace(cfg.APIKey)

	req := request{
		Messages:        []providers.Message{{Role: providers.RoleUser, Content: providers.PolishPrompt(task)}},
		Temperature:     cfg.TemperatureValue(),
		MaxOutputTokens: cfg.MaxTokensValue(),
	}

	header := http.Header{}
	if strings.Contains(baseURL, accessTokenHostMarker) {
		req.AccessToken = apiKey
	} else {
		header.Set("Authorization", "Bearer "+apiKey)
	}

	var resp response
	if perr := a.poster.Post(ctx, baseURL, header, req, &resp, cfg.RequestTimeout()); perr != nil {
		return perr.Result(task)
	}

	// Qianfan reports some failures with a 200 status and an error code
	if resp.ErrorCode != 0 {
		a.logger.Debug("wenxin returned an error code",
			zap.Int("error_code", resp.ErrorCode),
			zap.String("error_msg", resp.ErrorMsg),
		)
		perr := providers.NewStatusError(models.ProviderWenxin, http.StatusOK, resp.ErrorMsg)
		perr.Message = fmt.Sprintf("API call failed (error_code %d): %s", resp.ErrorCode, resp.ErrorMsg)
		return perr.Result(task)
	}

	return models.NewSuccess(models.ProviderWenxin, task, strings.TrimSpace(resp.Result), resp.Usage)
}
