package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daveokon/medistaff/internal/core"
)

type recordingExtractor struct {
	calls int
	text  string
	err   error
}

func (f *recordingExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestServiceRejectsBeforeExtractorRuns(t *testing.T) {
	svc := NewService(0)
	fake := &recordingExtractor{text: "should never be seen"}
	svc.Register(core.FormatPDF, fake)
	svc.Register(core.FormatDOCX, fake)
	svc.Register(core.FormatPlainText, fake)
	svc.Register(core.FormatImage, fake)

	_, err := svc.Extract(context.Background(), []byte("payload"), "application/zip")
	require.ErrorIs(t, err, ErrUnsupportedMediaType)
	assert.Zero(t, fake.calls, "no extractor side effects for rejected types")
}

func TestServiceTruncatesToBound(t *testing.T) {
	svc := NewService(2000)
	long := strings.Repeat("a", 3000)

	res, err := svc.Extract(context.Background(), []byte(long), "text/plain")
	require.NoError(t, err)
	assert.Len(t, res.Text, 2000)
	assert.True(t, res.Truncated)
	assert.Equal(t, core.FormatPlainText, res.SourceFormat)
	assert.Equal(t, "text/plain", res.MimeType)
}

func TestServiceDoesNotTruncateShortText(t *testing.T) {
	svc := NewService(2000)

	res, err := svc.Extract(context.Background(), []byte("short note"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "short note", res.Text)
	assert.False(t, res.Truncated)
}

func TestServiceTruncatesByRunesNotBytes(t *testing.T) {
	svc := NewService(10)
	text := strings.Repeat("é", 20)

	res, err := svc.Extract(context.Background(), []byte(text), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 10), res.Text)
	assert.True(t, res.Truncated)
}

func TestServiceExtractionIsIdempotent(t *testing.T) {
	svc := NewService(2000)
	data := []byte("the same bytes every time")

	first, err := svc.Extract(context.Background(), data, "text/plain")
	require.NoError(t, err)
	second, err := svc.Extract(context.Background(), data, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestServiceWrapsExtractorFailuresWithFormat(t *testing.T) {
	svc := NewService(0)
	boom := errors.New("corrupt archive")
	svc.Register(core.FormatDOCX, &recordingExtractor{err: boom})

	_, err := svc.Extract(context.Background(), []byte("x"),
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.Error(t, err)

	var exErr *Error
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, core.FormatDOCX, exErr.Format)
	assert.ErrorIs(t, err, boom)
}

func TestPlainTextExtractorRejectsBinary(t *testing.T) {
	e := &PlainTextExtractor{}
	_, err := e.Extract(context.Background(), []byte{0xff, 0xfe, 0x00, 0x01})
	require.Error(t, err)
}

func TestSanitizeTextStripsControls(t *testing.T) {
	got := SanitizeText("a\x00b\x01c\nd\te ")
	assert.Equal(t, "abc\nd\te", got)
}
