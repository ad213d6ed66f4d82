package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
}

func TestLoadDefaults(t *testing.T) {
	clearCredentials(t)
	t.Setenv("OPENROUTER_API_KEY", "or-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "or-key", cfg.OpenRouterAPIKey)
	assert.Equal(t, 45*time.Second, cfg.GenerationTimeout)
}

func TestLoadOverrides(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("PORT", "8080")
	t.Setenv("MODEL", "gemini-2.5-pro")
	t.Setenv("GENERATION_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "g-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, 10*time.Second, cfg.GenerationTimeout)
}

func TestLoadRequiresCredential(t *testing.T) {
	clearCredentials(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key found")
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	clearCredentials(t)
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("GENERATION_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATION_TIMEOUT")
}
