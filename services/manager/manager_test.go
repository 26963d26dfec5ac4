package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/repositories/jsonfile"
	"github.com/upb/task-simplifier/services"
	"github.com/upb/task-simplifier/services/providers"
	"github.com/upb/task-simplifier/services/simplifier"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// echoAdapter returns a fixed rewrite for its provider
type echoAdapter struct {
	provider models.Provider
	text     string
}

func (a echoAdapter) Provider() models.Provider { return a.provider }

func (a echoAdapter) Rewrite(_ context.Context, task string, _ models.ProviderConfig) models.CallResult {
	return models.NewSuccess(a.provider, task, a.text, nil)
}

func newRegistry(t *testing.T) *providers.Registry {
	t.Helper()
	registry := providers.NewRegistry()
	for _, p := range models.AllProviders() {
		require.NoError(t, registry.Register(echoAdapter{provider: p, text: "rewrite by " + p.String()}))
	}
	return registry
}

func writeStore(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ai_config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newManager(t *testing.T, path string, opts ...Option) *ConfigManager {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return New(context.Background(), jsonfile.NewStore(path, logger), newRegistry(t), logger, opts...)
}

const twoProviders = `{
	"tongyi": {"api_key": "tk", "base_url": "https://dashscope.aliyuncs.com/compatible-mode/v1", "model": "qwen-plus"},
	"glm": {"api_key": "gk", "base_url": "https://open.bigmodel.cn/api/paas/v4", "model": "glm-4"},
	"claude": {"api_key": "   ", "base_url": "https://api.anthropic.com", "model": "claude"}
}`

func validDeepSeek() models.ProviderConfig {
	return models.ProviderConfig{
		APIKey:  "sk-0123456789abcdefghij",
		BaseURL: "https://api.deepseek.com/v1",
		Model:   "deepseek-chat",
		Timeout: models.IntNumber(20),
	}
}

func TestNew_MissingStoreStartsEmpty(t *testing.T) {
	m := newManager(t, filepath.Join(t.TempDir(), "absent.json"))

	assert.Empty(t, m.AvailableProviders())
	status := m.ProviderStatus()
	assert.Len(t, status, 9)
	for p, configured := range status {
		assert.False(t, configured, "provider %s", p)
	}
}

func TestNew_MalformedStoreStartsEmpty(t *testing.T) {
	m := newManager(t, writeStore(t, `{not json`))
	assert.Empty(t, m.AvailableProviders())
}

func TestAvailableProviders_DeclarationOrder(t *testing.T) {
	m := newManager(t, writeStore(t, twoProviders))

	assert.Equal(t, []models.Provider{models.ProviderGLM, models.ProviderTongyi}, m.AvailableProviders())

	status := m.ProviderStatus()
	assert.True(t, status[models.ProviderGLM])
	assert.True(t, status[models.ProviderTongyi])
	assert.False(t, status[models.ProviderClaude], "blank key is not configured")
	assert.False(t, status[models.ProviderDeepSeek])
}

func TestSimplify_NoProviderConfigured(t *testing.T) {
	m := newManager(t, filepath.Join(t.TempDir(), "absent.json"))

	res := m.Simplify(context.Background(), "write the report", "")
	assert.False(t, res.Success)
	assert.Equal(t, "write the report", res.SimplifiedTask)
	assert.Equal(t, simplifier.NoProviderMessage, res.Error)
}

func TestSimplify_UnsupportedProviderName(t *testing.T) {
	m := newManager(t, writeStore(t, twoProviders))

	res := m.Simplify(context.Background(), "task", "mistral")
	assert.False(t, res.Success)
	assert.Equal(t, "task", res.SimplifiedTask)
	assert.Equal(t, "unsupported provider: mistral", res.Error)
}

func TestSimplify_NamedProvider(t *testing.T) {
	m := newManager(t, writeStore(t, twoProviders))

	res := m.Simplify(context.Background(), "task", "GLM")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, models.ProviderGLM, res.Provider)
	assert.Equal(t, "rewrite by glm", res.SimplifiedTask)
	assert.Empty(t, res.AllResults)
}

func TestSimplify_FanOutOverAvailable(t *testing.T) {
	m := newManager(t, writeStore(t, twoProviders))

	res := m.Simplify(context.Background(), "task", "")
	require.True(t, res.Success, res.Error)
	// "rewrite by glm" is shorter than "rewrite by tongyi"
	assert.Equal(t, models.ProviderGLM, res.Provider)
	require.Len(t, res.AllResults, 2)
	assert.Equal(t, models.ProviderGLM, res.AllResults[0].Provider)
	assert.Equal(t, models.ProviderTongyi, res.AllResults[1].Provider)
}

func TestSimplifySync(t *testing.T) {
	m := newManager(t, writeStore(t, twoProviders))

	res := m.SimplifySync("task", "tongyi")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "rewrite by tongyi", res.SimplifiedTask)
}

func TestSetProviderConfig_PersistsAndReloads(t *testing.T) {
	path := writeStore(t, twoProviders)
	m := newManager(t, path)

	require.NoError(t, m.SetProviderConfig(context.Background(), "deepseek", validDeepSeek()))

	assert.Equal(t, []models.Provider{models.ProviderDeepSeek, models.ProviderGLM, models.ProviderTongyi}, m.AvailableProviders())
	cfg, ok := m.ProviderConfig(models.ProviderDeepSeek)
	require.True(t, ok)
	assert.Equal(t, 20, cfg.TimeoutSeconds())

	// a fresh manager over the same file sees the record
	other := newManager(t, path)
	_, ok = other.ProviderConfig(models.ProviderDeepSeek)
	assert.True(t, ok)
}

func TestSetProviderConfig_Rejections(t *testing.T) {
	m := newManager(t, writeStore(t, twoProviders))

	err := m.SetProviderConfig(context.Background(), "mistral", validDeepSeek())
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
	assert.True(t, errors.Is(err, services.ErrUnsupportedProvider))
	assert.Equal(t, "mistral", services.GetErrorDetails(err)["provider"])
	assert.Empty(t, services.ErrUnsupportedProvider.Details)

	bad := validDeepSeek()
	bad.BaseURL = "ftp://api.deepseek.com"
	err = m.SetProviderConfig(context.Background(), "deepseek", bad)
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
	assert.Equal(t, "base_url", services.GetErrorDetails(err)["field"])

	_, ok := m.ProviderConfig(models.ProviderDeepSeek)
	assert.False(t, ok, "rejected record is not stored")
}

func TestSetProviderConfig_LenientNumbers(t *testing.T) {
	m := newManager(t, writeStore(t, twoProviders))

	for _, temperature := range []models.Number{".5", "+1", "1."} {
		cfg := models.ProviderConfig{
			APIKey:      "glm-key",
			BaseURL:     "https://open.bigmodel.cn/api/paas/v4",
			Model:       "glm-4",
			Timeout:     "+20",
			MaxTokens:   "0300",
			Temperature: temperature,
		}
		require.NoError(t, m.SetProviderConfig(context.Background(), "glm", cfg), "temperature %q", temperature)

		stored, ok := m.ProviderConfig(models.ProviderGLM)
		require.True(t, ok)
		assert.Equal(t, 20, stored.TimeoutSeconds())
		assert.Equal(t, 300, stored.MaxTokensValue())
	}

	stored, _ := m.ProviderConfig(models.ProviderGLM)
	assert.Equal(t, 1.0, stored.TemperatureValue())
}

func TestRemoveProvider(t *testing.T) {
	m := newManager(t, writeStore(t, twoProviders))

	require.NoError(t, m.RemoveProvider(context.Background(), "glm"))
	assert.Equal(t, []models.Provider{models.ProviderTongyi}, m.AvailableProviders())

	err := m.RemoveProvider(context.Background(), "glm")
	assert.True(t, services.IsNotFoundError(err))
	assert.Equal(t, "glm", services.GetErrorDetails(err)["provider"])
	assert.Empty(t, services.ErrProviderConfigNotFound.Details)

	err = m.RemoveProvider(context.Background(), "mistral")
	assert.True(t, services.IsValidationError(err))
}

func TestReload_KeepsPreviousMappingOnError(t *testing.T) {
	path := writeStore(t, twoProviders)
	m := newManager(t, path)
	require.Len(t, m.AvailableProviders(), 2)

	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o600))
	err := m.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, services.IsConfigurationError(err))
	var domainErr *services.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, services.ErrMalformedStore.Message, domainErr.Message)
	assert.Len(t, m.AvailableProviders(), 2)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := writeStore(t, twoProviders)
	m := newManager(t, path, WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`{"openai": {"api_key": "sk-x"}}`), 0o600))

	assert.Eventually(t, func() bool {
		got := m.AvailableProviders()
		return len(got) == 1 && got[0] == models.ProviderOpenAI
	}, 3*time.Second, 20*time.Millisecond)
}
