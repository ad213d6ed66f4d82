package llm

import (
	"context"
	"fmt"
	"strings"

	"anysite/internal/config"
)

// Generator produces the HTML for one page from a rendered prompt. Each call
// is a single upstream attempt; callers own any policy beyond that.
type Generator interface {
	Generate(ctx context.Context, data PromptData) (string, error)
}

// New selects a provider based on which credential is configured. Order
// matches the credential precedence: OpenRouter, then OpenAI, then Gemini.
func New(cfg *config.Config) (Generator, error) {
	switch {
	case cfg.OpenRouterAPIKey != "":
		return newChatGenerator(chatConfig{
			APIKey:  cfg.OpenRouterAPIKey,
			BaseURL: "https://openrouter.ai/api",
			Model:   defaultModel(cfg, "google/gemini-2.5-flash"),
			Timeout: cfg.GenerationTimeout,
		}), nil
	case cfg.OpenAIAPIKey != "":
		return newChatGenerator(chatConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: "https://api.openai.com",
			Model:   defaultModel(cfg, "gpt-4o-mini"),
			Timeout: cfg.GenerationTimeout,
		}), nil
	case cfg.GeminiAPIKey != "":
		return newGeminiGenerator(cfg.GeminiAPIKey, defaultModel(cfg, "gemini-2.0-flash"))
	default:
		return nil, fmt.Errorf("no generation credential configured")
	}
}

func defaultModel(cfg *config.Config, fallback string) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return fallback
}

// stripCodeFence removes a surrounding markdown fence when the model wraps
// its output in ```html despite being told not to.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n")
	if len(lines) < 3 {
		return trimmed
	}

	lang := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[0]), "```"))
	if lang != "" && !strings.EqualFold(lang, "html") {
		return trimmed
	}

	closing := -1
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			closing = i
			break
		}
	}
	if closing == -1 {
		return trimmed
	}

	return strings.TrimSpace(strings.Join(lines[1:closing], "\n"))
}
