package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LLM_PROVIDER",
		"GEMINI_API_KEY", "GEMINI_MODEL", "OPENAI_API_KEY", "OPENAI_MODEL",
		"MAX_REQUEST_BODY_SIZE", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"TELEGRAM_BOT_TOKEN", "WEBHOOK_URL",
	} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model())
	assert.Equal(t, int64(15<<20), cfg.MaxRequestBodySize)
	assert.Equal(t, 120*time.Second, cfg.WriteTimeout)
	assert.Empty(t, cfg.Credential(), "missing key must not fail Load")
}

func TestLoadProviderSelection(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", " OpenAI ")
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("GEMINI_API_KEY", "gm-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderGPT, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.Credential())
	assert.Equal(t, "gpt-4o-mini", cfg.Model())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown provider", "LLM_PROVIDER", "claude"},
		{"zero body size", "MAX_REQUEST_BODY_SIZE", "0"},
		{"negative timeout", "SERVER_WRITE_TIMEOUT", "-1s"},
		{"unparseable timeout", "SERVER_READ_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
