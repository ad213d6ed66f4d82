package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anysite/internal/config"
)

func testChatGenerator(baseURL string) *chatGenerator {
	return newChatGenerator(chatConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
}

func completionJSON(content string) string {
	resp := chatResponse{}
	resp.Choices = append(resp.Choices, struct {
		Message chatMessage `json:"message"`
	}{Message: chatMessage{Role: "assistant", Content: content}})
	buf, _ := json.Marshal(resp)
	return string(buf)
}

func TestChatGeneratorSendsPrompt(t *testing.T) {
	var got chatRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(completionJSON("<h1>Cats</h1>")))
	}))
	defer upstream.Close()

	gen := testChatGenerator(upstream.URL)
	html, err := gen.Generate(context.Background(), catsPromptData())
	require.NoError(t, err)
	assert.Equal(t, "<h1>Cats</h1>", html)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 0.7, got.Temperature)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "The current path is: cats")
}

func TestChatGeneratorUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	_, err := testChatGenerator(upstream.URL).Generate(context.Background(), catsPromptData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChatGeneratorMissingChoices(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer upstream.Close()

	_, err := testChatGenerator(upstream.URL).Generate(context.Background(), catsPromptData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing choices")
}

func TestChatGeneratorStripsCodeFence(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionJSON("```html\n<h1>Cats</h1>\n```")))
	}))
	defer upstream.Close()

	html, err := testChatGenerator(upstream.URL).Generate(context.Background(), catsPromptData())
	require.NoError(t, err)
	assert.Equal(t, "<h1>Cats</h1>", html)
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"<h1>plain</h1>":                     "<h1>plain</h1>",
		"```html\n<h1>x</h1>\n```":           "<h1>x</h1>",
		"```\n<h1>x</h1>\n```":               "<h1>x</h1>",
		"```json\n{\"not\":\"html\"}\n```":   "```json\n{\"not\":\"html\"}\n```",
		"```html\n<h1>never closed</h1>":     "```html\n<h1>never closed</h1>",
		"  \n<h1>padded</h1>\n ":             "<h1>padded</h1>",
	}

	for input, want := range tests {
		assert.Equal(t, want, stripCodeFence(input), "input %q", input)
	}
}

func TestNewSelectsProviderByCredential(t *testing.T) {
	cfg := &config.Config{OpenRouterAPIKey: "or-key", GenerationTimeout: time.Second}
	gen, err := New(cfg)
	require.NoError(t, err)
	chat, ok := gen.(*chatGenerator)
	require.True(t, ok)
	assert.Equal(t, "https://openrouter.ai/api", chat.baseURL)
	assert.Equal(t, "google/gemini-2.5-flash", chat.model)

	cfg = &config.Config{OpenAIAPIKey: "oa-key", Model: "custom-model", GenerationTimeout: time.Second}
	gen, err = New(cfg)
	require.NoError(t, err)
	chat, ok = gen.(*chatGenerator)
	require.True(t, ok)
	assert.Equal(t, "https://api.openai.com", chat.baseURL)
	assert.Equal(t, "custom-model", chat.model)

	_, err = New(&config.Config{})
	require.Error(t, err)
}
