package oracle

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	path string
	body string
}

func newGeminiServer(t *testing.T, reply string) (*Gemini, *[]capturedRequest) {
	t.Helper()
	var seen []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seen = append(seen, capturedRequest{path: r.URL.Path, body: string(raw)})
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	g, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return g, &seen
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{APIKey: "  "})
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestGeminiAnalyzeTaskDecodesStructuredReply(t *testing.T) {
	g, seen := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"subtasks\":[\"a\",\"b\"],\"estimatedTime\":\"10m\"}"}]}}]}`)

	got, err := g.AnalyzeTask(context.Background(), "Plan trip", "to Rome")
	require.NoError(t, err)
	assert.Equal(t, Suggestion{Subtasks: []string{"a", "b"}, EstimatedTime: "10m"}, got)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Contains(t, req.path, "gemini-3-pro-preview:generateContent")
	assert.Contains(t, req.body, "application/json")
	assert.Contains(t, req.body, "estimatedTime")
	assert.Contains(t, req.body, "Plan trip")
}

func TestGeminiAnalyzeTaskRejectsMalformedReply(t *testing.T) {
	g, _ := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"not json"}]}}]}`)

	_, err := g.AnalyzeTask(context.Background(), "x", "")
	assert.Error(t, err)
}

func TestGeminiAnalyzeTaskEmptyReply(t *testing.T) {
	g, _ := newGeminiServer(t, `{"candidates":[]}`)

	_, err := g.AnalyzeTask(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiChatSendsPersona(t *testing.T) {
	g, seen := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Greetings."}]}}]}`)

	got, err := g.Chat(context.Background(), "hello", &Attachment{Data: []byte{0x89, 0x50}, MIMEType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "Greetings.", got)

	body := (*seen)[0].body
	assert.Contains(t, body, "APOLO")
	assert.Contains(t, body, "image/png")
	assert.Contains(t, (*seen)[0].path, "gemini-3-flash-preview")
}

func TestGeminiGenerateTextAppendsNoMarkdownClause(t *testing.T) {
	g, seen := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"A poem"}]}}]}`)

	got, err := g.GenerateText(context.Background(), "write", "You are a poet.")
	require.NoError(t, err)
	assert.Equal(t, "A poem", got)
	assert.Contains(t, (*seen)[0].body, "You are a poet. Do not use Markdown")
}

func TestGeminiGenerateImageReturnsInlineData(t *testing.T) {
	g, seen := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"here"},{"inlineData":{"mimeType":"image/jpeg","data":"aGVsbG8="}}]}}]}`)

	img, err := g.GenerateImage(context.Background(), "an owl")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, []byte("hello"), img.Data)
	assert.Contains(t, (*seen)[0].path, "gemini-2.5-flash-image")
	assert.True(t, strings.Contains((*seen)[0].body, "an owl"))
}

func TestGeminiGenerateImageWithoutImage(t *testing.T) {
	g, _ := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"sorry"}]}}]}`)

	_, err := g.GenerateImage(context.Background(), "an owl")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestGeminiSearchCollectsSources(t *testing.T) {
	g, seen := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"It rained."}]},
		"groundingMetadata":{"groundingChunks":[{"web":{"uri":"https://example.com/a","title":"A"}},{"web":{"uri":"https://example.com/b","title":"B"}}]}}]}`)

	got, err := g.Search(context.Background(), "weather")
	require.NoError(t, err)
	assert.Equal(t, "It rained.", got.Text)
	assert.Equal(t, []Source{{Title: "A", URI: "https://example.com/a"}, {Title: "B", URI: "https://example.com/b"}}, got.Sources)
	assert.Contains(t, (*seen)[0].body, "googleSearch")
}
