// Package prompt builds the ordered message list sent to the completion
// provider. Ordering and truncation are the load-bearing contract: the
// returned sequence goes to the provider verbatim.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/daveokon/medistaff/internal/core"
	"github.com/daveokon/medistaff/internal/models"
)

// ErrEmptyRequest means neither a message nor a file was provided; nothing
// downstream runs.
var ErrEmptyRequest = errors.New("either a message or a file is required")

// SystemPrompt is the role-adaptive persona used when no file is attached.
// When a file is attached the model is steered purely by the
// document-analysis framing instead, so this prompt is deliberately dropped.
const SystemPrompt = "You are MediStaff Assistant, a medical assistant for hospital staff. " +
	"Adapt your answers to the audience: clinical detail for doctors and heads of department, " +
	"plain-language summaries for trustees. Be concise, ground answers in established clinical " +
	"guidelines, and recommend consulting the appropriate specialist for anything outside your scope."

const imageReportPrompt = "You are a medical imaging assistant. Write a short, structured report " +
	"of the findings in the supplied image. Flag anything that needs clinical follow-up and state " +
	"clearly that the report is not a diagnosis."

// Assemble merges the user's message, the extraction of an attached file (nil
// when none), and prior chat history into the prompt sequence.
//
// Without a file: persona system prompt first, then history (minus stale
// copies of the persona prompt), then the message verbatim. With a file: all
// system-role history entries are dropped, then history, then one user
// message carrying the bounded file text.
func Assemble(message string, ext *core.ExtractionResult, history []models.ChatMessage) ([]models.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" && ext == nil {
		return nil, ErrEmptyRequest
	}

	msgs := make([]models.ChatMessage, 0, len(history)+2)

	if ext == nil {
		msgs = append(msgs, models.ChatMessage{Role: models.RoleSystem, Content: SystemPrompt})
		for _, m := range history {
			if m.Role == models.RoleSystem && m.Content == SystemPrompt {
				continue
			}
			msgs = append(msgs, m)
		}
		msgs = append(msgs, models.ChatMessage{Role: models.RoleUser, Content: message})
		return msgs, nil
	}

	for _, m := range history {
		if m.Role == models.RoleSystem {
			continue
		}
		msgs = append(msgs, m)
	}
	msgs = append(msgs, models.ChatMessage{Role: models.RoleUser, Content: documentMessage(message, ext)})
	return msgs, nil
}

// AssembleImageAnalysis builds the two-message prompt for the standalone
// image-analysis endpoint, attaching any text the OCR pass recognized.
func AssembleImageAnalysis(ext *core.ExtractionResult) []models.ChatMessage {
	content := "Please analyze this medical image and report any findings."
	if strings.TrimSpace(ext.Text) != "" {
		content += "\n\nText recognized in the image:\n" + boundedText(ext)
	}
	return []models.ChatMessage{
		{Role: models.RoleSystem, Content: imageReportPrompt},
		{Role: models.RoleUser, Content: content},
	}
}

// ModelFor selects the downstream model: vision-capable for images,
// text-only otherwise. Pure function of the source format.
func ModelFor(ext *core.ExtractionResult, textModel, visionModel string) string {
	if ext != nil && ext.SourceFormat == core.FormatImage {
		return visionModel
	}
	return textModel
}

func documentMessage(message string, ext *core.ExtractionResult) string {
	text := boundedText(ext)
	if message != "" {
		return fmt.Sprintf("%s\n\nFile content (%s):\n%s", message, ext.MimeType, text)
	}
	return fmt.Sprintf("Please analyze this document (%s):\n%s", ext.MimeType, text)
}

func boundedText(ext *core.ExtractionResult) string {
	if ext.Truncated {
		return ext.Text + "..."
	}
	return ext.Text
}
