package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port      string `yaml:"port"`
	APIToken  string `yaml:"api_token"`
	StorePath string `yaml:"store_path"`
	LogFile   string `yaml:"log_file"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	FastModel    string `yaml:"fast_model"`
	DeepModel    string `yaml:"deep_model"`

	TTSModel string `yaml:"tts_model"`
	TTSVoice string `yaml:"tts_voice"`

	LiveModel   string `yaml:"live_model"`
	LiveVoice   string `yaml:"live_voice"`
	LiveBaseURL string `yaml:"live_base_url"`
}

// Load reads configuration from the environment, with an optional YAML file
// (CONFIG_FILE) overriding the defaults before env vars are applied.
func Load() Config {
	cfg := fromFile(os.Getenv("CONFIG_FILE"))

	cfg.Port = getenv("PORT", fallback(cfg.Port, "8080"))
	cfg.APIToken = getenv("API_TOKEN", cfg.APIToken)
	cfg.StorePath = getenv("STORE_PATH", fallback(cfg.StorePath, "data/conversations.json"))
	cfg.LogFile = getenv("LOG_FILE", cfg.LogFile)

	cfg.GeminiAPIKey = getenv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.FastModel = getenv("FAST_MODEL", fallback(cfg.FastModel, "gemini-3-flash-preview"))
	cfg.DeepModel = getenv("DEEP_MODEL", fallback(cfg.DeepModel, "gemini-3-pro-preview"))

	cfg.TTSModel = getenv("TTS_MODEL", fallback(cfg.TTSModel, "gemini-2.5-flash-preview-tts"))
	cfg.TTSVoice = getenv("TTS_VOICE", fallback(cfg.TTSVoice, "Kore"))

	cfg.LiveModel = getenv("LIVE_MODEL", fallback(cfg.LiveModel, "gemini-2.5-flash-native-audio-preview-12-2025"))
	cfg.LiveVoice = getenv("LIVE_VOICE", fallback(cfg.LiveVoice, "Puck"))
	cfg.LiveBaseURL = getenv("LIVE_BASE_URL", fallback(cfg.LiveBaseURL, "wss://generativelanguage.googleapis.com/ws"))

	return cfg
}

func fromFile(path string) Config {
	var cfg Config
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = yaml.Unmarshal(data, &cfg)
	return cfg
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func fallback(v, d string) string {
	if v != "" {
		return v
	}
	return d
}
