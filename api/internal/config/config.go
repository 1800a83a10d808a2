package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderGPT    = "gpt"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Provider selects which engine answers /api/analyze: "gemini" | "gpt".
	Provider string `env:"LLM_PROVIDER" envDefault:"gemini"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY_SIZE" envDefault:"15728640"`
	ReadTimeout        time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout       time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"120s"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	WebhookURL       string `env:"WEBHOOK_URL"`
}

// Load reads .env (when present) and then the process environment.
// Provider credentials are not required here: a missing key is reported per request.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "openai" {
		c.Provider = ProviderGPT
	}
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)
	c.GeminiModel = strings.TrimSpace(c.GeminiModel)
	c.OpenAIAPIKey = strings.TrimSpace(c.OpenAIAPIKey)
	c.OpenAIModel = strings.TrimSpace(c.OpenAIModel)
	c.TelegramBotToken = strings.TrimSpace(c.TelegramBotToken)
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderGPT:
	default:
		return fmt.Errorf("invalid LLM_PROVIDER %q: use %q or %q", c.Provider, ProviderGemini, ProviderGPT)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is empty")
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got read=%s, write=%s)", c.ReadTimeout, c.WriteTimeout)
	}
	return nil
}

// Credential returns the API key of the active provider, possibly empty.
func (c *Config) Credential() string {
	if c.Provider == ProviderGPT {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Model returns the model identifier of the active provider.
func (c *Config) Model() string {
	if c.Provider == ProviderGPT {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
