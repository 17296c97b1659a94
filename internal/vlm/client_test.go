package vlm

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photosort/internal/filehandler"
)

func testImage(t *testing.T) filehandler.ImageFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))))
	return filehandler.ImageFile{Path: path, Ext: ".png"}
}

// chatServer returns an httptest server that answers /api/chat with the
// given content string wrapped in the chat envelope.
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		require.Len(t, req.Messages[0].Images, 1)

		resp := map[string]any{"message": map[string]string{"role": "assistant", "content": content}}
		json.NewEncoder(w).Encode(resp)
	}))
}

const validAnalysis = `{
	"technical": {"is_keeper": true, "is_dud": false, "dud_reason": "", "technical_notes": "sharp"},
	"naming": {"suggested_filename": "golden-hour-portrait", "subject": "Portrait", "location_type": "Beach", "time_of_day": "Golden hour"},
	"critique": {"overall_score": 8, "composition": "balanced", "lighting": "soft", "technical_quality": "sharp", "strengths": ["color"], "improvements": ["crop"], "mood": "warm"}
}`

func TestAnalyzeSuccess(t *testing.T) {
	srv := chatServer(t, validAnalysis)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	result := client.Analyze(context.Background(), testImage(t))

	require.Equal(t, StatusSuccess, result.Status)
	require.NotNil(t, result.Analysis)
	assert.True(t, result.Analysis.Technical.IsKeeper)
	assert.False(t, result.Analysis.Technical.IsDud)
	assert.Equal(t, "golden-hour-portrait", result.Analysis.Naming.SuggestedFilename)
	assert.Equal(t, 8.0, result.Analysis.Critique.OverallScore)
}

func TestAnalyzeMissingSection(t *testing.T) {
	srv := chatServer(t, `{"technical": {"is_keeper": true}, "naming": {}}`)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	result := client.Analyze(context.Background(), testImage(t))

	assert.Equal(t, StatusMalformed, result.Status)
	assert.Nil(t, result.Analysis)
}

func TestAnalyzeGarbageContent(t *testing.T) {
	srv := chatServer(t, "the image looks fine to me")
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	result := client.Analyze(context.Background(), testImage(t))
	assert.Equal(t, StatusMalformed, result.Status)
}

func TestAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	result := client.Analyze(context.Background(), testImage(t))
	assert.Equal(t, StatusUnreachable, result.Status)
}

func TestAnalyzeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", WithTimeouts(30*time.Millisecond, 30*time.Millisecond))
	result := client.Analyze(context.Background(), testImage(t))
	assert.Equal(t, StatusTimeout, result.Status)
}

func TestAnalyzeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // port now refuses connections

	client := NewClient(srv.URL, "test-model")
	result := client.Analyze(context.Background(), testImage(t))
	assert.Equal(t, StatusUnreachable, result.Status)
}

func TestNameSuccess(t *testing.T) {
	srv := chatServer(t, `{"filename": "Dog Catching Ball.jpg", "tags": ["dog", "action", "park"]}`)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	result := client.Name(context.Background(), testImage(t))

	require.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, "dog-catching-ball", result.Filename)
	assert.Equal(t, []string{"dog", "action", "park"}, result.Tags)
}

func TestNameMissingKeys(t *testing.T) {
	srv := chatServer(t, `{"filename": "sunset"}`)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	result := client.Name(context.Background(), testImage(t))
	assert.Equal(t, StatusMalformed, result.Status)
}

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Golden Hour Portrait", "golden-hour-portrait"},
		{`"sunset-beach!"`, "sunset-beach"},
		{"dog   catching    ball", "dog-catching-ball"},
		{"---already-clean---", "already-clean"},
		{"###", ""},
		{"UPPER_case_ok", "upper_case_ok"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFilename(tt.input))
		})
	}
}

func TestCleanFilenameLength(t *testing.T) {
	long := CleanFilename("a very long descriptive filename that keeps going and going and going and going")
	assert.LessOrEqual(t, len(long), 60)
	assert.NotEmpty(t, long)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	assert.NoError(t, client.Ping(context.Background()))

	dead := NewClient("http://127.0.0.1:1", "test-model")
	assert.Error(t, dead.Ping(context.Background()))
}
