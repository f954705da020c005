package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig is the YAML-file form of a client configuration.
//
// Example file:
//
//	provider: anthropic
//	model: claude-3-5-sonnet-20241022
//	system: "You are a helpful assistant."
//	max_tokens: 4096
//	timeout_seconds: 60
type ClientConfig struct {
	Provider       string   `yaml:"provider"`
	BaseURL        string   `yaml:"base_url,omitempty"` // openai-compliant only
	APIKey         string   `yaml:"api_key,omitempty"`
	Model          string   `yaml:"model"`
	System         string   `yaml:"system,omitempty"`
	Temperature    *float64 `yaml:"temperature,omitempty"`
	TopP           *float64 `yaml:"top_p,omitempty"`
	MaxTokens      int      `yaml:"max_tokens,omitempty"`
	TimeoutSeconds int      `yaml:"timeout_seconds,omitempty"`
}

// Validate checks the configuration for obvious mistakes.
func (cfg *ClientConfig) Validate() error {
	if cfg.Model == "" {
		return fmt.Errorf("model is required")
	}
	switch cfg.Provider {
	case "openai", "anthropic", "openrouter":
	case "openai-compliant":
		if cfg.BaseURL == "" {
			return fmt.Errorf("base_url is required for provider openai-compliant")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProviderName, cfg.Provider)
	}
	if cfg.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative")
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

// provider maps the config's provider name to a Provider value.
func (cfg *ClientConfig) provider() (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return OpenAI(), nil
	case "anthropic":
		return Anthropic(), nil
	case "openrouter":
		return OpenRouter(), nil
	case "openai-compliant":
		return OpenAICompliant(cfg.BaseURL), nil
	}
	return Provider{}, fmt.Errorf("%w: %q", ErrUnknownProviderName, cfg.Provider)
}

// NewClient builds a Client from this configuration.
func (cfg *ClientConfig) NewClient() (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := cfg.provider()
	if err != nil {
		return nil, err
	}

	client, err := NewClient(Config{
		Provider:  p,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		System:    cfg.System,
		MaxTokens: cfg.MaxTokens,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Temperature != nil {
		client.WithTemperature(*cfg.Temperature)
	}
	if cfg.TopP != nil {
		client.WithTopP(*cfg.TopP)
	}
	return client, nil
}

// LoadClientConfig loads a client configuration from a YAML file.
func LoadClientConfig(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ClientConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadClientConfigWithEnvOverrides loads a config file and applies
// environment variable overrides:
//   - LLM_API_KEY: override api_key
//   - LLM_MODEL: override model
//   - LLM_TEMPERATURE: override temperature (float)
//   - LLM_MAX_TOKENS: override max tokens (int)
func LoadClientConfigWithEnvOverrides(path string) (*ClientConfig, error) {
	cfg, err := LoadClientConfig(path)
	if err != nil {
		return nil, err
	}

	if key := os.Getenv("LLM_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		cfg.Model = model
	}
	if temp := os.Getenv("LLM_TEMPERATURE"); temp != "" {
		if t, err := strconv.ParseFloat(temp, 64); err == nil {
			cfg.Temperature = &t
		}
	}
	if maxTokens := os.Getenv("LLM_MAX_TOKENS"); maxTokens != "" {
		if tokens, err := strconv.Atoi(maxTokens); err == nil {
			cfg.MaxTokens = tokens
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration after env overrides: %w", err)
	}
	return cfg, nil
}

// SaveClientConfig writes a configuration to a YAML file.
func SaveClientConfig(cfg *ClientConfig, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
