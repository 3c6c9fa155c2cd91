package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/daveokon/medistaff/internal/core"
	"github.com/daveokon/medistaff/internal/models"
)

// GeminiProvider adapts Google's Gemini API to the ChatProvider contract.
// A leading system message becomes the model's SystemInstruction; the rest
// of the sequence is flattened into a transcript, preserving order.
type GeminiProvider struct {
	client *genai.Client
}

var _ core.ChatProvider = (*GeminiProvider)(nil)

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key missing")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: cl}, nil
}

func (g *GeminiProvider) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiProvider) Complete(ctx context.Context, model string, messages []models.ChatMessage) (string, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	m := g.client.GenerativeModel(model)

	var transcript strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			if m.SystemInstruction == nil {
				m.SystemInstruction = &genai.Content{
					Parts: []genai.Part{genai.Text(msg.Content)},
				}
			}
		case models.RoleAssistant:
			transcript.WriteString("Assistant: ")
			transcript.WriteString(msg.Content)
			transcript.WriteString("\n")
		default:
			transcript.WriteString("User: ")
			transcript.WriteString(msg.Content)
			transcript.WriteString("\n")
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(transcript.String()))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}
