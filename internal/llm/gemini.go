package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// geminiGenerator calls the Gemini API directly through the genai SDK.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func newGeminiGenerator(apiKey, model string) (*geminiGenerator, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, data PromptData) (string, error) {
	prompt, err := RenderPrompt(data)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](chatTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	return stripCodeFence(result.Text()), nil
}
