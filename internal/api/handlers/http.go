package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/daveokon/medistaff/internal/core/extraction"
	"github.com/daveokon/medistaff/internal/core/prompt"
)

// ErrPayloadTooLarge means the upload exceeded the path's byte cap before
// anything was persisted.
var ErrPayloadTooLarge = errors.New("uploaded file is too large")

// maxMultipartOverhead is the slack allowed on top of a path's file cap for
// form fields and multipart framing when bounding the request body.
const maxMultipartOverhead = 1 << 20 // 1 MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps the error taxonomy to HTTP: validation and extraction
// failures are the client's problem (400), everything else is upstream
// (500). No partial success is ever reported.
func statusFor(err error) int {
	if errors.Is(err, extraction.ErrUnsupportedMediaType) ||
		errors.Is(err, prompt.ErrEmptyRequest) ||
		errors.Is(err, ErrPayloadTooLarge) {
		return http.StatusBadRequest
	}
	var exErr *extraction.Error
	if errors.As(err, &exErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
