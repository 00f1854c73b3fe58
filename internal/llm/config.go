package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for OpenAI-compatible gateways
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

const envPrefix = "STUDYBUDDY_"

// ConfigFromEnv builds a Config from STUDYBUDDY_* environment variables.
// It reports false when no provider was selected explicitly.
func ConfigFromEnv() (Config, bool) {
	cfg := DefaultConfig()

	overrides := []struct {
		name string
		dst  *string
	}{
		{"ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{"ANTHROPIC_MODEL", &cfg.Anthropic.Model},
		{"OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{"OPENAI_MODEL", &cfg.OpenAI.Model},
		{"OPENAI_BASE_URL", &cfg.OpenAI.BaseURL},
		{"GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{"GEMINI_MODEL", &cfg.Gemini.Model},
		{"OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey},
		{"OPENROUTER_MODEL", &cfg.OpenRouter.Model},
	}
	for _, o := range overrides {
		if v := os.Getenv(envPrefix + o.name); v != "" {
			*o.dst = v
		}
	}

	p := os.Getenv(envPrefix + "LLM_PROVIDER")
	if p == "" {
		return cfg, false
	}
	cfg.Provider = p
	return cfg, true
}

// DiscoverConfig checks the vendors' standard API key variables in order
// Gemini, OpenAI, Anthropic, OpenRouter and selects the first one set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// ResolveConfig prefers an explicit STUDYBUDDY_LLM_PROVIDER and falls back
// to key discovery. It reports false when no provider is available, in
// which case callers run with offline content.
func ResolveConfig() (Config, bool) {
	if cfg, ok := ConfigFromEnv(); ok {
		return cfg, true
	}
	return DiscoverConfig()
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("an API key is required for the %s provider (set %s%s_API_KEY)",
			c.Provider, envPrefix, strings.ToUpper(c.Provider))
	}
	return nil
}
