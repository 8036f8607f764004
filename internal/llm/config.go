package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const envPrefix = "STUDYMATE_"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Speech     SpeechConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional, for OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// SpeechConfig configures read-aloud synthesis. Speech always runs on
// Gemini; APIKey falls back to the Gemini key.
type SpeechConfig struct {
	APIKey string
	Model  string // Default: "gemini-tts"
	Voice  string // Default: "Kore"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Speech:     SpeechConfig{Model: "gemini-tts", Voice: "Kore"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// envBindings maps STUDYMATE_* variables to the fields they set.
func (c *Config) envBindings() map[string]*string {
	return map[string]*string{
		envPrefix + "LLM_PROVIDER":        &c.Provider,
		envPrefix + "ANTHROPIC_API_KEY":   &c.Anthropic.APIKey,
		envPrefix + "ANTHROPIC_MODEL":     &c.Anthropic.Model,
		envPrefix + "OPENAI_API_KEY":      &c.OpenAI.APIKey,
		envPrefix + "OPENAI_MODEL":        &c.OpenAI.Model,
		envPrefix + "OPENAI_BASE_URL":     &c.OpenAI.BaseURL,
		envPrefix + "GEMINI_API_KEY":      &c.Gemini.APIKey,
		envPrefix + "GEMINI_MODEL":        &c.Gemini.Model,
		envPrefix + "OPENROUTER_API_KEY":  &c.OpenRouter.APIKey,
		envPrefix + "OPENROUTER_MODEL":    &c.OpenRouter.Model,
		envPrefix + "OPENROUTER_BASE_URL": &c.OpenRouter.BaseURL,
		envPrefix + "TTS_API_KEY":         &c.Speech.APIKey,
		envPrefix + "TTS_MODEL":           &c.Speech.Model,
		envPrefix + "TTS_VOICE":           &c.Speech.Voice,
	}
}

// ConfigFromEnv builds a Config from STUDYMATE_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for name, dst := range cfg.envBindings() {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	return cfg
}

// discoveryOrder lists the vendor API key variables probed by
// DiscoverConfig, in priority order.
var discoveryOrder = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", "gemini"},
	{"OPENAI_API_KEY", "openai"},
	{"ANTHROPIC_API_KEY", "anthropic"},
	{"OPENROUTER_API_KEY", "openrouter"},
}

// DiscoverConfig probes the vendors' own API key variables and returns a
// Config for the first provider whose key is found.
func DiscoverConfig() (Config, bool) {
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			cfg := WithAPIKey(DefaultConfig(), d.provider, k)
			return cfg, true
		}
	}
	return Config{}, false
}

// WithAPIKey returns a copy of cfg that uses provider with the given key.
func WithAPIKey(cfg Config, provider, key string) Config {
	cfg.Provider = provider
	switch provider {
	case "anthropic":
		cfg.Anthropic.APIKey = key
	case "openai":
		cfg.OpenAI.APIKey = key
	case "gemini":
		cfg.Gemini.APIKey = key
	case "openrouter":
		cfg.OpenRouter.APIKey = key
	}
	return cfg
}

// APIKey returns the key of the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case "anthropic":
		return c.Anthropic.APIKey
	case "openai":
		return c.OpenAI.APIKey
	case "gemini":
		return c.Gemini.APIKey
	case "openrouter":
		return c.OpenRouter.APIKey
	}
	return ""
}

// SpeechAPIKey returns the key used for speech synthesis, if any.
func (c Config) SpeechAPIKey() string {
	if c.Speech.APIKey != "" {
		return c.Speech.APIKey
	}
	return c.Gemini.APIKey
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "mock":
		return nil
	case "anthropic", "openai", "gemini", "openrouter":
		if c.APIKey() == "" {
			return fmt.Errorf("%s%s_API_KEY is required for the %s provider",
				envPrefix, strings.ToUpper(c.Provider), c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
