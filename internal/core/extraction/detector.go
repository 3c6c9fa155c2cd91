package extraction

import (
	"fmt"
	"strings"

	"github.com/daveokon/medistaff/internal/core"
)

// The detector trusts the client-declared MIME type and only checks it
// against an allow-list; anything else fails the request before any
// extractor runs.

var chatFormats = map[string]core.Format{
	"application/pdf": core.FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": core.FormatDOCX,
	"text/plain":         core.FormatPlainText,
	"application/msword": core.FormatPlainText, // legacy .doc, decoded as raw text
	"application/rtf":    core.FormatPlainText, // treated as raw text
	"image/jpeg":         core.FormatImage,
	"image/jpg":          core.FormatImage,
	"image/png":          core.FormatImage,
	"image/gif":          core.FormatImage,
}

var imageFormats = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// DetectFormat classifies a declared MIME type against the chat allow-list.
func DetectFormat(mimeType string) (core.Format, error) {
	f, ok := chatFormats[NormalizeMediaType(mimeType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mimeType)
	}
	return f, nil
}

// DetectImageFormat classifies a declared MIME type against the stricter
// image-analysis allow-list (JPEG/PNG only).
func DetectImageFormat(mimeType string) (core.Format, error) {
	if _, ok := imageFormats[NormalizeMediaType(mimeType)]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mimeType)
	}
	return core.FormatImage, nil
}

// NormalizeMediaType lowercases a Content-Type header value and strips any
// parameters ("text/plain; charset=utf-8" -> "text/plain").
func NormalizeMediaType(mimeType string) string {
	mt := strings.TrimSpace(mimeType)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
