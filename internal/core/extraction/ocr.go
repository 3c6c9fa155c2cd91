package extraction

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// OCRExtractor runs optical character recognition over raw image bytes.
// This is the slowest path, on the order of seconds; the duration is logged
// so long recognitions are visible without blocking anything.
type OCRExtractor struct {
	language string
}

func NewOCRExtractor(language string) *OCRExtractor {
	if language == "" {
		language = "eng"
	}
	return &OCRExtractor{language: language}
}

func (e *OCRExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	_ = ctx
	start := time.Now()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	log.Printf("ocr: recognized %d bytes of image in %s", len(data), time.Since(start).Round(time.Millisecond))

	// Images without any text are normal; an empty result is not an error.
	return strings.TrimSpace(SanitizeText(text)), nil
}
