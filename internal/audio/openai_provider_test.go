package audio

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc, cache bool) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultProviderConfig()
	config.Provider = "openai"
	config.OpenAIKey = "test-key"
	config.EnableCache = cache
	config.CacheDir = filepath.Join(t.TempDir(), "cache")

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	clientConfig.BaseURL = server.URL + "/v1"

	p, err := newOpenAIProvider(config, clientConfig)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return p
}

func TestOpenAIProvider_GenerateAudio(t *testing.T) {
	var body string
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			http.NotFound(w, r)
			return
		}
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_, _ = w.Write([]byte("mp3-bytes"))
	}, false)

	outputFile := filepath.Join(t.TempDir(), "out.mp3")
	if err := p.GenerateAudio(context.Background(), "Bonjour", "fr", outputFile); err != nil {
		t.Fatalf("GenerateAudio failed: %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Errorf("Unexpected audio data %q", data)
	}
	if !strings.Contains(body, "Speak the text in French") {
		t.Errorf("Expected language instruction in request, got %s", body)
	}
}

func TestOpenAIProvider_Cache(t *testing.T) {
	var calls atomic.Int32
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("mp3-bytes"))
	}, true)

	dir := t.TempDir()
	ctx := context.Background()

	if err := p.GenerateAudio(ctx, "Hallo", "de", filepath.Join(dir, "a.mp3")); err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	if err := p.GenerateAudio(ctx, "Hallo", "de", filepath.Join(dir, "b.mp3")); err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected cached second call, got %d API calls", calls.Load())
	}

	// Same text in another language is a different cache entry
	if err := p.GenerateAudio(ctx, "Hallo", "nl", filepath.Join(dir, "c.mp3")); err != nil {
		t.Fatalf("Third call failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 API calls, got %d", calls.Load())
	}

	if err := p.ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if _, err := os.Stat(p.cacheDir); !os.IsNotExist(err) {
		t.Error("Cache directory should be removed")
	}
}

func TestOpenAIProvider_APIError(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}, false)

	err := p.GenerateAudio(context.Background(), "Hi", "en", filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil || !strings.Contains(err.Error(), "OpenAI TTS API error") {
		t.Fatalf("Expected API error, got %v", err)
	}
}

func TestOpenAIProvider_CacheKeyIncludesLanguage(t *testing.T) {
	p := &OpenAIProvider{config: DefaultProviderConfig(), cacheDir: "cache"}
	if p.getCacheFilePath("hola", "es") == p.getCacheFilePath("hola", "pt") {
		t.Error("Expected different cache paths per language")
	}
}
