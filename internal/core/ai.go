package core

import (
	"context"

	"github.com/daveokon/medistaff/internal/models"
)

// ChatProvider is a remote completion API: ordered messages in, text out.
// The message order is the contract; providers must send it verbatim.
type ChatProvider interface {
	Complete(ctx context.Context, model string, messages []models.ChatMessage) (string, error)
}
