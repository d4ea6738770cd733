package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend: "anthropic", "openai", "gemini",
	// "openrouter" or "mock". Empty disables the tutor.
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds a single tutor request including retries.
	Timeout time.Duration `yaml:"timeout"`
}

type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"` // default "claude-haiku"
	BaseURL string `yaml:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"` // default "gpt-4o-mini"
	BaseURL string `yaml:"base_url"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // default "gemini-flash"
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"` // default https://openrouter.ai/api/v1
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with no provider selected.
func DefaultConfig() Config {
	return Config{
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
		Timeout: 20 * time.Second,
	}
}

// ApplyEnv overrides cfg with PENNYWISE_* variables that are set.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Provider, "PENNYWISE_LLM_PROVIDER")

	setFromEnv(&c.Anthropic.APIKey, "PENNYWISE_ANTHROPIC_API_KEY")
	setFromEnv(&c.Anthropic.Model, "PENNYWISE_ANTHROPIC_MODEL")

	setFromEnv(&c.OpenAI.APIKey, "PENNYWISE_OPENAI_API_KEY")
	setFromEnv(&c.OpenAI.Model, "PENNYWISE_OPENAI_MODEL")
	setFromEnv(&c.OpenAI.BaseURL, "PENNYWISE_OPENAI_BASE_URL")

	setFromEnv(&c.Gemini.APIKey, "PENNYWISE_GEMINI_API_KEY")
	setFromEnv(&c.Gemini.Model, "PENNYWISE_GEMINI_MODEL")

	setFromEnv(&c.OpenRouter.APIKey, "PENNYWISE_OPENROUTER_API_KEY")
	setFromEnv(&c.OpenRouter.Model, "PENNYWISE_OPENROUTER_MODEL")

	if v := os.Getenv("PENNYWISE_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Discover selects a provider from the vendors' standard API key variables
// (Gemini, OpenAI, Anthropic, OpenRouter) when none was configured.
// It reports whether a provider is selected afterwards.
func (c *Config) Discover() bool {
	if c.Provider != "" {
		return true
	}
	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		c.Provider = "gemini"
		c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		c.Provider = "openai"
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		c.Provider = "anthropic"
		c.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		c.Provider = "openrouter"
		c.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		return false
	}
	return true
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "", "mock":
		return nil
	case "anthropic":
		key, env = c.Anthropic.APIKey, "PENNYWISE_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "PENNYWISE_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "PENNYWISE_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "PENNYWISE_OPENROUTER_API_KEY"
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
