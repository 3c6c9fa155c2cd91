package extraction

import (
	"errors"
	"fmt"

	"github.com/daveokon/medistaff/internal/core"
)

var (
	// ErrUnsupportedMediaType means the declared MIME type is outside the
	// allow-list; the request fails before any extraction is attempted.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	ErrNoExtractableText = errors.New("no extractable text found in document")
)

// Error is an extractor-specific parse failure tagged with the format family
// it occurred in.
type Error struct {
	Format core.Format
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
