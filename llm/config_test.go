package llm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadClientConfig(t *testing.T) {
	path := writeConfigFile(t, `
provider: anthropic
api_key: k
model: claude-3-5-sonnet-20241022
system: "Be brief."
temperature: 0.3
max_tokens: 4096
timeout_seconds: 60
`)

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.Model)
	assert.Equal(t, "Be brief.", cfg.System)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, 0.3, *cfg.Temperature)
	assert.Equal(t, 4096, cfg.MaxTokens)
}

func TestLoadClientConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing model", "provider: openai\napi_key: k\n"},
		{"unknown provider", "provider: carrier-pigeon\nmodel: m\n"},
		{"compliant without base_url", "provider: openai-compliant\nmodel: m\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadClientConfig(writeConfigFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadClientConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
provider: openai
api_key: from-file
model: gpt-4o-mini
`)

	t.Setenv("LLM_API_KEY", "from-env")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("LLM_TEMPERATURE", "0.5")
	t.Setenv("LLM_MAX_TOKENS", "123")

	cfg, err := LoadClientConfigWithEnvOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, 0.5, *cfg.Temperature)
	assert.Equal(t, 123, cfg.MaxTokens)
}

func TestClientConfigNewClient(t *testing.T) {
	temp := 0.3
	cfg := &ClientConfig{
		Provider:       "openrouter",
		APIKey:         "k",
		Model:          "m",
		System:         "sys",
		Temperature:    &temp,
		MaxTokens:      256,
		TimeoutSeconds: 30,
	}

	client, err := cfg.NewClient()
	require.NoError(t, err)
	assert.Equal(t, "openrouter", client.Provider.String())
	assert.Equal(t, 0.3, client.Temperature)
	assert.Equal(t, "sys", client.System)
	assert.Equal(t, 256, client.MaxTokens)
}

func TestClientConfigNewClientCompliant(t *testing.T) {
	cfg := &ClientConfig{
		Provider: "openai-compliant",
		BaseURL:  "http://localhost:11434/v1/chat/completions",
		Model:    "qwen2.5:7b",
	}

	client, err := cfg.NewClient()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/v1/chat/completions", client.Provider.URL())
}

func TestSaveClientConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := &ClientConfig{Provider: "openai", APIKey: "k", Model: "m"}

	require.NoError(t, SaveClientConfig(cfg, path))
	loaded, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
