package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "data/conversations.json", cfg.StorePath)
	assert.Equal(t, "gemini-3-flash-preview", cfg.FastModel)
	assert.Equal(t, "gemini-3-pro-preview", cfg.DeepModel)
	assert.Equal(t, "Kore", cfg.TTSVoice)
	assert.Equal(t, "Puck", cfg.LiveVoice)
	assert.Equal(t, "wss://generativelanguage.googleapis.com/ws", cfg.LiveBaseURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "k-123")
	t.Setenv("LIVE_VOICE", "Aoede")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "k-123", cfg.GeminiAPIKey)
	assert.Equal(t, "Aoede", cfg.LiveVoice)
}

func TestLoadYAMLFileThenEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: \"7000\"\nfast_model: custom-fast\napi_token: file-token\n",
	), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7100")

	cfg := Load()
	assert.Equal(t, "7100", cfg.Port, "env beats file")
	assert.Equal(t, "custom-fast", cfg.FastModel, "file beats default")
	assert.Equal(t, "file-token", cfg.APIToken)
	assert.Equal(t, "Kore", cfg.TTSVoice, "defaults still fill the gaps")
}
