package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/abhisek/medval/internal/config"
)

// Config selects and configures a provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini" or "mock".
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Retry     RetryConfig
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// RetryConfig configures WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the defaults used when a field is not configured.
func DefaultConfig() Config {
	return Config{
		Provider:  "anthropic",
		Anthropic: AnthropicConfig{Model: "claude-sonnet"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
	}
}

// FromSettings builds a Config from the llm section of the application
// configuration. A model set there applies to the selected provider only.
func FromSettings(s config.LLMConfig) Config {
	cfg := DefaultConfig()
	if s.Provider != "" {
		cfg.Provider = s.Provider
	}
	cfg.Anthropic.APIKey = s.AnthropicKey
	cfg.OpenAI.APIKey = s.OpenAIKey
	cfg.OpenAI.BaseURL = s.OpenAIBaseURL
	cfg.Gemini.APIKey = s.GeminiKey
	if s.MaxRetries > 0 {
		cfg.Retry.MaxAttempts = s.MaxRetries
	}
	if s.Model != "" {
		switch cfg.Provider {
		case "anthropic":
			cfg.Anthropic.Model = s.Model
		case "openai":
			cfg.OpenAI.Model = s.Model
		case "gemini":
			cfg.Gemini.Model = s.Model
		}
	}
	return cfg
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "anthropic":
		key = c.Anthropic.APIKey
	case "openai":
		key = c.OpenAI.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	case "mock":
		return nil
	default:
		return eris.Errorf("llm: unknown provider %q", c.Provider)
	}
	if key == "" {
		return eris.Errorf("llm: MEDVAL_LLM_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}

// New creates the configured provider wrapped as
// caller → retry → logging → provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	}
	if err != nil {
		return nil, eris.Wrapf(err, "llm: initialize %s provider", cfg.Provider)
	}

	return WithRetry(WithLogging(base), cfg.Retry), nil
}

