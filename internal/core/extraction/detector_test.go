package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daveokon/medistaff/internal/core"
)

func TestDetectFormatAllowList(t *testing.T) {
	cases := map[string]core.Format{
		"application/pdf": core.FormatPDF,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": core.FormatDOCX,
		"text/plain":         core.FormatPlainText,
		"application/msword": core.FormatPlainText,
		"application/rtf":    core.FormatPlainText,
		"image/jpeg":         core.FormatImage,
		"image/jpg":          core.FormatImage,
		"image/png":          core.FormatImage,
		"image/gif":          core.FormatImage,
	}
	for mime, want := range cases {
		got, err := DetectFormat(mime)
		require.NoError(t, err, mime)
		assert.Equal(t, want, got, mime)
	}
}

func TestDetectFormatRejectsUnknownTypes(t *testing.T) {
	for _, mime := range []string{
		"application/zip",
		"video/mp4",
		"application/octet-stream",
		"text/html",
		"",
	} {
		_, err := DetectFormat(mime)
		require.Error(t, err, mime)
		assert.ErrorIs(t, err, ErrUnsupportedMediaType, mime)
	}
}

func TestDetectFormatNormalizesMediaType(t *testing.T) {
	got, err := DetectFormat("Text/Plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, core.FormatPlainText, got)
}

func TestDetectImageFormatIsStricter(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/jpg", "image/png"} {
		got, err := DetectImageFormat(mime)
		require.NoError(t, err, mime)
		assert.Equal(t, core.FormatImage, got)
	}

	// gif is fine for chat but not for image analysis
	_, err := DetectImageFormat("image/gif")
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	_, err = DetectImageFormat("application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}
