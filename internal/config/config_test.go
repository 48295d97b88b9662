package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("TELNYX_API_KEY", "KEY_test")
	t.Setenv("TELNYX_PUBLIC_KEY", "cHVibGljLWtleQ==")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, ResponseProviderOpenAI, cfg.Services.ResponseProvider)
	assert.Equal(t, 15*time.Second, cfg.Services.AdapterTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Sessions.IdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Telnyx.WebhookTolerance)
	assert.Equal(t, "https://api.telnyx.com/v2", cfg.Telnyx.APIBaseURL)
	assert.Equal(t, "alloy", cfg.Voice.TTSVoice)
	assert.Equal(t, 2*time.Second, cfg.Voice.StreamWindow)
	assert.Equal(t, int64(50), cfg.Generation.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Generation.Temperature, 1e-9)
	assert.Empty(t, cfg.Telnyx.StreamURL)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{name: "telnyx api key", missing: "TELNYX_API_KEY"},
		{name: "telnyx public key", missing: "TELNYX_PUBLIC_KEY"},
		{name: "openai api key", missing: "OPENAI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.missing, "")

			_, err := Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrEmptyEnvironmentVariable)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestLoad_GeminiRequiresKey(t *testing.T) {
	setRequired(t)
	t.Setenv("RESPONSE_PROVIDER", ResponseProviderGemini)

	_, err := Load()
	assert.ErrorIs(t, err, ErrEmptyEnvironmentVariable)

	t.Setenv("GOOGLE_AI_API_KEY", "g-key")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.Services.GoogleAIAPIKey)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port", key: "PORT", value: "eighty"},
		{name: "adapter timeout", key: "ADAPTER_TIMEOUT", value: "soon"},
		{name: "workers", key: "TURN_WORKERS", value: "many"},
		{name: "provider", key: "RESPONSE_PROVIDER", value: "carrier-pigeon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
