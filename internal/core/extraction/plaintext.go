package extraction

import (
	"context"
	"errors"
	"unicode/utf8"
)

// PlainTextExtractor decodes raw bytes as UTF-8. Legacy .doc and .rtf
// uploads are routed here as well: they are decoded as raw text, not parsed.
type PlainTextExtractor struct{}

func (e *PlainTextExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	_ = ctx
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid UTF-8 text")
	}

	text := SanitizeText(string(data))
	if text == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}
