// Package builtin assembles the adapter registry covering every provider tag
package builtin

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/task-simplifier/services/providers"
	"github.com/upb/task-simplifier/services/providers/compat"
	"github.com/upb/task-simplifier/services/providers/httpchat"
	"github.com/upb/task-simplifier/services/providers/stub"
	"github.com/upb/task-simplifier/services/providers/wenxin"
)

// NewRegistry registers one adapter per provider tag. client may be nil, in
// which case each call builds its own client bounded by the configured
// timeout.
func NewRegistry(client *http.Client, logger *zap.Logger) (*providers.Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	return providers.NewRegistryBuilder().
		WithAdapter(
			httpchat.NewDeepSeek(httpchat.WithHTTPClient(client), httpchat.WithLogger(logger)),
			httpchat.NewDoubao(httpchat.WithHTTPClient(client), httpchat.WithLogger(logger)),
			httpchat.NewOpenAI(httpchat.WithHTTPClient(client), httpchat.WithLogger(logger)),
			wenxin.New(client, logger),
			compat.NewYuanbao(compat.WithHTTPClient(client), compat.WithLogger(logger)),
			compat.NewTongyi(compat.WithHTTPClient(client), compat.WithLogger(logger)),
			stub.NewGemini(),
			stub.NewClaude(),
			stub.NewGLM(),
		).
		Build()
}
