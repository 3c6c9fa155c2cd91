package extraction

import (
	"context"
	"fmt"
	"os"

	"github.com/daveokon/medistaff/internal/core"
)

const DefaultMaxChars = 2000

// Extractor turns bytes of one format family into UTF-8 text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Service dispatches to the extractor registered for a file's format and
// bounds the result for prompt assembly. New formats are added by
// registering an extractor, not by touching existing ones.
type Service struct {
	extractors map[core.Format]Extractor
	maxChars   int
}

var _ core.DocumentExtractor = (*Service)(nil)

// NewService builds a Service with the default extractor per format.
// maxChars bounds the text kept for the prompt; <=0 uses DefaultMaxChars.
func NewService(maxChars int) *Service {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	s := &Service{
		extractors: make(map[core.Format]Extractor, 4),
		maxChars:   maxChars,
	}
	s.Register(core.FormatPDF, &PDFExtractor{})
	s.Register(core.FormatDOCX, &DocxExtractor{})
	s.Register(core.FormatPlainText, &PlainTextExtractor{})
	s.Register(core.FormatImage, NewOCRExtractor("eng"))
	return s
}

// Register replaces the extractor used for a format.
func (s *Service) Register(f core.Format, e Extractor) {
	s.extractors[f] = e
}

// Extract classifies the declared MIME type, runs the matching extractor
// over the in-memory buffer, and truncates the text to the configured bound.
func (s *Service) Extract(ctx context.Context, data []byte, mimeType string) (*core.ExtractionResult, error) {
	format, err := DetectFormat(mimeType)
	if err != nil {
		return nil, err
	}
	ex, ok := s.extractors[format]
	if !ok {
		return nil, fmt.Errorf("%w: no extractor registered for %s", ErrUnsupportedMediaType, format)
	}

	text, err := ex.Extract(ctx, data)
	if err != nil {
		return nil, &Error{Format: format, Err: err}
	}

	res := &core.ExtractionResult{
		SourceFormat: format,
		MimeType:     NormalizeMediaType(mimeType),
	}
	runes := []rune(text)
	if len(runes) > s.maxChars {
		res.Text = string(runes[:s.maxChars])
		res.Truncated = true
	} else {
		res.Text = text
	}
	return res, nil
}

// ExtractFile reads a stored artifact from disk and extracts it. Used by the
// image-analysis path, where the upload lives on disk rather than in memory.
func (s *Service) ExtractFile(ctx context.Context, path, mimeType string) (*core.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stored upload: %w", err)
	}
	return s.Extract(ctx, data, mimeType)
}
