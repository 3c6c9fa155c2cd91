package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/daveokon/medistaff/internal/config"
	"github.com/daveokon/medistaff/internal/core"
	"github.com/daveokon/medistaff/internal/core/extraction"
	"github.com/daveokon/medistaff/internal/core/llm"
	"github.com/daveokon/medistaff/internal/core/prompt"
	uploadstore "github.com/daveokon/medistaff/internal/core/upload-store"
)

// MaxImageUploadBytes caps the image-analysis path. Tighter than chat: these
// uploads are persisted to disk until the reaper retires them.
const MaxImageUploadBytes = 5 << 20 // 5 MB

type ImageHandler struct {
	extractor core.DocumentExtractor
	provider  core.ChatProvider
	store     *uploadstore.Store
	cfg       *config.Config
}

func NewImageHandler(extractor core.DocumentExtractor, provider core.ChatProvider, store *uploadstore.Store, cfg *config.Config) *ImageHandler {
	return &ImageHandler{extractor: extractor, provider: provider, store: store, cfg: cfg}
}

type imageAnalysisResponse struct {
	Report   string `json:"report"`
	ImageURL string `json:"imageUrl"`
}

// Analyze stores the uploaded image, runs OCR over the stored copy, and
// returns a model-written report plus the static URL of the artifact. The
// URL stays readable until the retention window lapses. If extraction fails
// the artifact is rolled back immediately rather than waiting for the
// reaper.
func (h *ImageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, MaxImageUploadBytes+maxMultipartOverhead)
	if err := r.ParseMultipartForm(MaxImageUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, ErrPayloadTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("image file is required"))
		return
	}
	defer file.Close()

	if header.Size > MaxImageUploadBytes {
		writeError(w, http.StatusBadRequest, ErrPayloadTooLarge)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if _, err := extraction.DetectImageFormat(contentType); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxImageUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}
	if len(data) > MaxImageUploadBytes {
		writeError(w, http.StatusBadRequest, ErrPayloadTooLarge)
		return
	}

	artifact, err := h.store.Save(header.Filename, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	ext, err := h.extractor.ExtractFile(ctx, artifact.Path, contentType)
	if err != nil {
		if rmErr := h.store.Remove(artifact); rmErr != nil {
			log.Printf("rollback of %s failed: %v", artifact.Path, rmErr)
		}
		writeError(w, statusFor(err), err)
		return
	}

	msgs := prompt.AssembleImageAnalysis(ext)
	report, err := h.provider.Complete(ctx, h.cfg.VisionModel, msgs)
	if err != nil {
		log.Printf("image analysis completion failed (%s): %v", llm.ClassifyError(err), err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("completion failed: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, imageAnalysisResponse{
		Report:   report,
		ImageURL: "/uploads/" + filepath.Base(artifact.Path),
	})
}
