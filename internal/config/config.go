package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contains runtime configuration derived from environment variables.
type Config struct {
	Port              string
	OpenRouterAPIKey  string
	OpenAIAPIKey      string
	GeminiAPIKey      string
	Model             string
	GenerationTimeout time.Duration
}

// Load reads config from the environment, consulting a local .env file when
// one exists. Exactly one upstream credential is required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", "3000")
	v.SetDefault("generation_timeout", "45s")

	cfg := &Config{
		Port:             v.GetString("port"),
		OpenRouterAPIKey: v.GetString("openrouter_api_key"),
		OpenAIAPIKey:     v.GetString("openai_api_key"),
		GeminiAPIKey:     v.GetString("gemini_api_key"),
		Model:            v.GetString("model"),
	}

	timeout, err := time.ParseDuration(v.GetString("generation_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid GENERATION_TIMEOUT: %w", err)
	}
	cfg.GenerationTimeout = timeout

	if cfg.OpenRouterAPIKey == "" && cfg.OpenAIAPIKey == "" && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("no API key found: set OPENROUTER_API_KEY, OPENAI_API_KEY, or GEMINI_API_KEY")
	}

	return cfg, nil
}
