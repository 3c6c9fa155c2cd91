package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daveokon/medistaff/internal/config"
	"github.com/daveokon/medistaff/internal/core"
	"github.com/daveokon/medistaff/internal/core/extraction"
	"github.com/daveokon/medistaff/internal/core/prompt"
	"github.com/daveokon/medistaff/internal/models"
)

type fakeProvider struct {
	calls    int
	model    string
	messages []models.ChatMessage
	reply    string
	err      error
}

func (f *fakeProvider) Complete(_ context.Context, model string, messages []models.ChatMessage) (string, error) {
	f.calls++
	f.model = model
	f.messages = messages
	return f.reply, f.err
}

type filePart struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, file *filePart) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func testChatConfig() *config.Config {
	return &config.Config{
		TextModel:        "text-model",
		VisionModel:      "vision-model",
		MaxDocumentChars: 2000,
	}
}

func TestChatRejectsEmptyRequest(t *testing.T) {
	provider := &fakeProvider{reply: "never"}
	h := NewChatHandler(extraction.NewService(2000), provider, testChatConfig())

	req := multipartRequest(t, "/api/chat", map[string]string{}, nil)
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, provider.calls, "no remote call for an empty request")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestChatMessageOnly(t *testing.T) {
	provider := &fakeProvider{reply: "hello doctor"}
	h := NewChatHandler(extraction.NewService(2000), provider, testChatConfig())

	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "earlier"},
		{Role: models.RoleAssistant, Content: "reply"},
	}
	rawHistory, err := json.Marshal(history)
	require.NoError(t, err)

	req := multipartRequest(t, "/api/chat", map[string]string{
		"message":     "test",
		"chatHistory": string(rawHistory),
	}, nil)
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text-model", provider.model)

	// persona prompt, history, then the new message, in that order
	require.Len(t, provider.messages, 4)
	assert.Equal(t, models.RoleSystem, provider.messages[0].Role)
	assert.Equal(t, prompt.SystemPrompt, provider.messages[0].Content)
	assert.Equal(t, history[0], provider.messages[1])
	assert.Equal(t, history[1], provider.messages[2])
	assert.Equal(t, models.ChatMessage{Role: models.RoleUser, Content: "test"}, provider.messages[3])

	var resp struct {
		Response    string               `json:"response"`
		ChatHistory []models.ChatMessage `json:"chatHistory"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hello doctor", resp.Response)
	require.Len(t, resp.ChatHistory, 4)
	assert.Equal(t, models.RoleAssistant, resp.ChatHistory[3].Role)
	assert.Equal(t, "hello doctor", resp.ChatHistory[3].Content)
}

func TestChatDocumentWithoutMessage(t *testing.T) {
	provider := &fakeProvider{reply: "summary"}
	h := NewChatHandler(extraction.NewService(2000), provider, testChatConfig())

	full := strings.Repeat("x", 3000)
	req := multipartRequest(t, "/api/chat", nil, &filePart{
		field:       "file",
		name:        "notes.txt",
		contentType: "text/plain",
		data:        []byte(full),
	})
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, provider.messages, 1)
	want := "Please analyze this document (text/plain):\n" + full[:2000] + "..."
	assert.Equal(t, want, provider.messages[0].Content)
	assert.Equal(t, "text-model", provider.model)

	// attachment metadata travels with the message and into the history
	assert.Equal(t, "notes.txt", provider.messages[0].FileName)
	assert.Equal(t, "text/plain", provider.messages[0].MimeType)

	var resp struct {
		ChatHistory []models.ChatMessage `json:"chatHistory"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.ChatHistory, 2)
	assert.Equal(t, "notes.txt", resp.ChatHistory[0].FileName)
	assert.Equal(t, "text/plain", resp.ChatHistory[0].MimeType)
}

func TestChatRejectsOversizedBody(t *testing.T) {
	provider := &fakeProvider{reply: "never"}
	recording := &recordingExtractor{}
	h := NewChatHandler(recording, provider, testChatConfig())

	req := multipartRequest(t, "/api/chat", map[string]string{"message": "hi"}, &filePart{
		field:       "file",
		name:        "huge.txt",
		contentType: "text/plain",
		data:        bytes.Repeat([]byte("x"), MaxChatUploadBytes+2<<20),
	})
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, provider.calls)
	assert.Zero(t, recording.calls, "oversize body rejected during parse")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrPayloadTooLarge.Error(), resp["error"])
}

func TestChatDocumentDropsSystemHistory(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	h := NewChatHandler(extraction.NewService(2000), provider, testChatConfig())

	history := []models.ChatMessage{
		{Role: models.RoleSystem, Content: prompt.SystemPrompt},
		{Role: models.RoleUser, Content: "earlier"},
	}
	rawHistory, err := json.Marshal(history)
	require.NoError(t, err)

	req := multipartRequest(t, "/api/chat", map[string]string{
		"message":     "what is this?",
		"chatHistory": string(rawHistory),
	}, &filePart{
		field:       "file",
		name:        "notes.txt",
		contentType: "text/plain",
		data:        []byte("some note"),
	})
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, m := range provider.messages {
		assert.NotEqual(t, models.RoleSystem, m.Role)
	}
}

func TestChatRejectsUnsupportedMediaType(t *testing.T) {
	provider := &fakeProvider{reply: "never"}
	recording := &recordingExtractor{}
	h := NewChatHandler(recording, provider, testChatConfig())

	req := multipartRequest(t, "/api/chat", map[string]string{"message": "hi"}, &filePart{
		field:       "file",
		name:        "archive.zip",
		contentType: "application/zip",
		data:        []byte("PK"),
	})
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, provider.calls)
	assert.Zero(t, recording.calls, "rejected before any extractor ran")
}

func TestChatRejectsInvalidHistoryJSON(t *testing.T) {
	provider := &fakeProvider{}
	h := NewChatHandler(extraction.NewService(2000), provider, testChatConfig())

	req := multipartRequest(t, "/api/chat", map[string]string{
		"message":     "hi",
		"chatHistory": "{not json",
	}, nil)
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, provider.calls)
}

func TestChatUpstreamFailureIs500(t *testing.T) {
	provider := &fakeProvider{err: errors.New("status 429: rate limit reached")}
	h := NewChatHandler(extraction.NewService(2000), provider, testChatConfig())

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	req := multipartRequest(t, "/api/chat", map[string]string{"message": "hi"}, nil)
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// failures are logged with their provider error class
	assert.Contains(t, logs.String(), "(rate)")
}

// recordingExtractor counts invocations so tests can assert fail-fast
// behavior at the endpoint boundary.
type recordingExtractor struct {
	calls int
	res   *core.ExtractionResult
	err   error
	path  string
}

func (f *recordingExtractor) Extract(_ context.Context, _ []byte, _ string) (*core.ExtractionResult, error) {
	f.calls++
	return f.res, f.err
}

func (f *recordingExtractor) ExtractFile(_ context.Context, path, _ string) (*core.ExtractionResult, error) {
	f.calls++
	f.path = path
	return f.res, f.err
}
