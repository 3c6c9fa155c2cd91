package extraction

import (
	"bytes"
	"context"
	"fmt"

	"code.sajari.com/docconv"
)

// DocxExtractor converts a DOCX archive to plain text, preserving paragraph
// order and discarding formatting. Corrupt archives fail the extraction.
type DocxExtractor struct{}

func (e *DocxExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	_ = ctx
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("convert docx: %w", err)
	}

	text = SanitizeText(text)
	if text == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}
