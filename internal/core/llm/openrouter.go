package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/daveokon/medistaff/internal/core"
	"github.com/daveokon/medistaff/internal/models"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterProvider calls OpenRouter's OpenAI-compatible chat completions
// API. The model identifier is chosen per request by the caller.
type OpenRouterProvider struct {
	apiKey string
	client *http.Client
}

var _ core.ChatProvider = (*OpenRouterProvider)(nil)

func NewOpenRouterProvider(apiKey string) *OpenRouterProvider {
	return &OpenRouterProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *OpenRouterProvider) Complete(ctx context.Context, model string, messages []models.ChatMessage) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("openrouter api key missing")
	}
	return completeOpenAICompatible(ctx, p.client, openRouterURL, p.apiKey, "openrouter", model, messages)
}

// completeOpenAICompatible posts a chat/completions request to any
// OpenAI-shaped endpoint and returns the first choice's content.
func completeOpenAICompatible(ctx context.Context, client *http.Client, url, apiKey, name, model string, messages []models.ChatMessage) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model":    model,
		"messages": messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build %s request: %w", name, err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", name, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%s error %d: %s", name, resp.StatusCode, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode %s response: %w", name, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s returned empty choices", name)
	}
	return parsed.Choices[0].Message.Content, nil
}
