package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/daveokon/medistaff/internal/config"
	"github.com/daveokon/medistaff/internal/core"
	"github.com/daveokon/medistaff/internal/core/extraction"
	"github.com/daveokon/medistaff/internal/core/llm"
	"github.com/daveokon/medistaff/internal/core/prompt"
	"github.com/daveokon/medistaff/internal/models"
)

// MaxChatUploadBytes caps chat attachments. The whole file stays in memory
// on this path; nothing is written to disk.
const MaxChatUploadBytes = 10 << 20 // 10 MB

type ChatHandler struct {
	extractor core.DocumentExtractor
	provider  core.ChatProvider
	cfg       *config.Config
}

func NewChatHandler(extractor core.DocumentExtractor, provider core.ChatProvider, cfg *config.Config) *ChatHandler {
	return &ChatHandler{extractor: extractor, provider: provider, cfg: cfg}
}

type chatResponse struct {
	Response    string               `json:"response"`
	ChatHistory []models.ChatMessage `json:"chatHistory"`
}

// Chat accepts multipart form data: an optional free-text message, an
// optional attachment, and the prior conversation as a JSON-encoded array.
// Admission, extraction, assembly and the provider call run to completion
// within the request; either a full response comes back or the whole
// request fails.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, MaxChatUploadBytes+maxMultipartOverhead)
	if err := r.ParseMultipartForm(MaxChatUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, ErrPayloadTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}

	message := strings.TrimSpace(r.FormValue("message"))

	history := []models.ChatMessage{}
	if raw := r.FormValue("chatHistory"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid chatHistory: %w", err))
			return
		}
	}

	var ext *core.ExtractionResult
	var fileName string
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()

		if header.Size > MaxChatUploadBytes {
			writeError(w, http.StatusBadRequest, ErrPayloadTooLarge)
			return
		}
		contentType := header.Header.Get("Content-Type")
		if _, err := extraction.DetectFormat(contentType); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, MaxChatUploadBytes+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
			return
		}
		if len(data) > MaxChatUploadBytes {
			writeError(w, http.StatusBadRequest, ErrPayloadTooLarge)
			return
		}

		ext, err = h.extractor.Extract(ctx, data, contentType)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		fileName = header.Filename
	case errors.Is(err, http.ErrMissingFile):
		// message-only request
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid file field: %w", err))
		return
	}

	msgs, err := prompt.Assemble(message, ext, history)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if ext != nil {
		// attachment metadata rides on the message that carries the file text
		last := &msgs[len(msgs)-1]
		last.FileName = fileName
		last.MimeType = ext.MimeType
	}

	model := prompt.ModelFor(ext, h.cfg.TextModel, h.cfg.VisionModel)
	answer, err := h.provider.Complete(ctx, model, msgs)
	if err != nil {
		log.Printf("chat completion failed (%s): %v", llm.ClassifyError(err), err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("completion failed: %w", err))
		return
	}

	updated := append(history,
		msgs[len(msgs)-1],
		models.ChatMessage{Role: models.RoleAssistant, Content: answer},
	)
	writeJSON(w, http.StatusOK, chatResponse{Response: answer, ChatHistory: updated})
}
