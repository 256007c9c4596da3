package scoring

import (
	"fmt"
	"os"

	"fundmatch/internal/config"
)

// Provider identifies a scoring model backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
)

// NewClient builds an LLMClient for the configured provider. Callers
// needing concurrent scoring must call this once per worker; client
// instances are not shared across goroutines.
func NewClient(cfg config.LLMConfig) (LLMClient, error) {
	apiKey := cfg.APIKey
	provider := Provider(cfg.Provider)
	if apiKey == "" {
		detected, key, err := detectProvider()
		if err != nil {
			return nil, err
		}
		apiKey = key
		if provider == "" {
			provider = detected
		}
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	switch provider {
	case ProviderAnthropic, "":
		return NewAnthropicClientWithConfig(AnthropicConfig{
			APIKey:  apiKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		}), nil
	case ProviderOpenAI:
		return NewOpenAIClientWithConfig(OpenAIConfig{
			APIKey:  apiKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		}), nil
	case ProviderGemini:
		return NewGeminiClientWithConfig(GeminiConfig{
			APIKey:  apiKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

// detectProvider falls back to environment variables, in priority order
// ANTHROPIC > OPENAI > GEMINI.
func detectProvider() (Provider, string, error) {
	providers := []struct {
		envVar   string
		provider Provider
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic},
		{"OPENAI_API_KEY", ProviderOpenAI},
		{"GEMINI_API_KEY", ProviderGemini},
	}
	for _, p := range providers {
		if key := os.Getenv(p.envVar); key != "" {
			return p.provider, key, nil
		}
	}
	return "", "", fmt.Errorf("no API key found; set one of: ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY")
}
