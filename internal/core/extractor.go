package core

import (
	"context"
)

// Format is the family a declared MIME type resolves to. Each format has
// exactly one extractor.
type Format string

const (
	FormatPDF       Format = "pdf"
	FormatDOCX      Format = "docx"
	FormatPlainText Format = "text"
	FormatImage     Format = "image"
)

// ExtractionResult is the bounded plain-text form of an uploaded file,
// produced once per upload and consumed once by the prompt assembler.
// Text is already capped to the configured character bound; Truncated is
// true iff the raw extraction exceeded it.
type ExtractionResult struct {
	Text         string
	SourceFormat Format
	MimeType     string
	Truncated    bool
}

// DocumentExtractor turns uploaded bytes into an ExtractionResult. The chat
// path hands over in-memory buffers; the image-analysis path hands over a
// path to the stored artifact.
type DocumentExtractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (*ExtractionResult, error)
	ExtractFile(ctx context.Context, path, mimeType string) (*ExtractionResult, error)
}
