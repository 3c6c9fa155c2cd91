package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/daveokon/medistaff/internal/core"
	"github.com/daveokon/medistaff/internal/models"
)

const groqURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqProvider calls Groq's OpenAI-compatible chat completions API.
type GroqProvider struct {
	apiKey string
	client *http.Client
}

var _ core.ChatProvider = (*GroqProvider)(nil)

func NewGroqProvider(apiKey string) *GroqProvider {
	return &GroqProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *GroqProvider) Complete(ctx context.Context, model string, messages []models.ChatMessage) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("groq api key missing")
	}
	return completeOpenAICompatible(ctx, p.client, groqURL, p.apiKey, "groq", model, messages)
}
