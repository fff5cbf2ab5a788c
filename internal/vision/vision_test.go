package vision

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImage(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		data     []byte
		wantMime string
		wantErr  error
	}{
		{name: "png", mimeType: "image/png", data: []byte{1}, wantMime: "image/png"},
		{name: "jpg alias", mimeType: "image/JPG", data: []byte{1}, wantMime: "image/jpeg"},
		{name: "with params", mimeType: "image/webp; charset=binary", data: []byte{1}, wantMime: "image/webp"},
		{name: "missing data", mimeType: "image/png", data: nil, wantErr: ErrNoImage},
		{name: "pdf", mimeType: "application/pdf", data: []byte{1}, wantErr: ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewImage(tt.mimeType, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMime, img.MimeType)
			assert.Equal(t, tt.data, img.Data)
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", Extension("image/jpeg"))
	assert.Equal(t, ".png", Extension("IMAGE/PNG"))
	assert.Equal(t, ".img", Extension("text/plain"))
}

func TestNewGenAIClient_RequiresKey(t *testing.T) {
	_, err := NewGenAIClient(context.Background(), GenAIConfig{})
	assert.Error(t, err)
}

// fakeGemini answers generateContent calls and records the last request body
func fakeGemini(t *testing.T, reply string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var last map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		last = map[string]any{}
		require.NoError(t, json.Unmarshal(body, &last))
		last["path"] = r.URL.Path

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"role":  "model",
						"parts": []any{map[string]any{"text": reply}},
					},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestGenAIClient_Generate(t *testing.T) {
	srv, last := fakeGemini(t, "Jane Doe, software engineer")

	client, err := NewGenAIClient(context.Background(), GenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.Model())

	img, err := NewImage("image/png", []byte("fake-png"))
	require.NoError(t, err)

	answer, err := client.Generate(context.Background(), DefaultInstruction, img, "What is the candidate's name?")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe, software engineer", answer)

	require.NotNil(t, *last)
	assert.True(t, strings.HasSuffix((*last)["path"].(string), DefaultModel+":generateContent"))

	contents := (*last)["contents"].([]any)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 3)
	assert.Equal(t, DefaultInstruction, parts[0].(map[string]any)["text"])
	assert.Contains(t, parts[1].(map[string]any), "inlineData")
	assert.Equal(t, "What is the candidate's name?", parts[2].(map[string]any)["text"])
}

func TestGenAIClient_GenerateSkipsBlankQuery(t *testing.T) {
	srv, last := fakeGemini(t, "summary")

	client, err := NewGenAIClient(context.Background(), GenAIConfig{APIKey: "test-key", Model: "gemini-custom", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), DefaultInstruction, Image{MimeType: "image/png", Data: []byte{1}}, "   ")
	require.NoError(t, err)

	parts := (*last)["contents"].([]any)[0].(map[string]any)["parts"].([]any)
	assert.Len(t, parts, 2)
	assert.True(t, strings.HasSuffix((*last)["path"].(string), "gemini-custom:generateContent"))
}

func TestGenAIClient_EmptyAnswer(t *testing.T) {
	srv, _ := fakeGemini(t, "")

	client, err := NewGenAIClient(context.Background(), GenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), DefaultInstruction, Image{MimeType: "image/png", Data: []byte{1}}, "q")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenAIClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	client, err := NewGenAIClient(context.Background(), GenAIConfig{APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), DefaultInstruction, Image{MimeType: "image/png", Data: []byte{1}}, "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.NotContains(t, err.Error(), "GenAI", "upstream errors are not wrapped")
}

func TestGenAIClient_NoImage(t *testing.T) {
	client := &GenAIClient{model: DefaultModel}
	_, err := client.Generate(context.Background(), DefaultInstruction, Image{}, "q")
	assert.ErrorIs(t, err, ErrNoImage)
}
