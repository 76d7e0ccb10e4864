package mt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/translingo/internal/apperr"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 2, EstimateTokens(""))
	assert.Equal(t, 5, EstimateTokens("hi there"))
	assert.Equal(t, 5, EstimateTokens("translation"))
}

func TestCheckBudget(t *testing.T) {
	assert.NoError(t, CheckBudget("short text", 10))

	long := strings.Repeat("word ", 50)
	err := CheckBudget(long, 10)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	assert.NoError(t, CheckBudget("x", 0), "zero falls back to the default budget")
}

func TestHuggingFaceTranslate(t *testing.T) {
	var got hfRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/"+DefaultHFModel, r.URL.Path)
		assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `[{"translation_text":" नमस्ते "}]`)
	}))
	defer server.Close()

	m, err := NewHuggingFaceModel(Config{Endpoint: server.URL + "/models/", Token: "hf-token", MaxTokens: 128})
	require.NoError(t, err)

	out, err := m.Translate(context.Background(), Request{Text: "Hello", Source: "eng_Latn", Target: "hin_Deva"})
	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", out)
	assert.Equal(t, "Hello", got.Inputs)
	assert.Equal(t, "eng_Latn", got.Parameters.SrcLang)
	assert.Equal(t, "hin_Deva", got.Parameters.TgtLang)
	assert.Equal(t, 128, got.Parameters.MaxLength)
	assert.True(t, got.Options.WaitForModel)
}

func TestHuggingFaceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusServiceUnavailable, `{"error":"Model is loading"}`, "Model is loading"},
		{"bare status", http.StatusBadGateway, `oops`, "status 502"},
		{"empty list", http.StatusOK, `[]`, "no translation returned"},
		{"bad json", http.StatusOK, `{`, "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			m, _ := NewHuggingFaceModel(Config{Endpoint: server.URL})
			_, err := m.Translate(context.Background(), Request{Text: "x", Source: "eng_Latn", Target: "tam_Taml"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `[{"translation_text":"नमस्ते"}]`)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = server.URL
	cfg.Warmup = true

	m, err := Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "huggingface", m.Name())
	assert.Equal(t, int32(1), calls.Load(), "warmup issues exactly one request")

	for i := 0; i < 3; i++ {
		_, err := m.Translate(context.Background(), Request{Text: "hi", Source: "eng_Latn", Target: "hin_Deva"})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(4), calls.Load())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(context.Background(), Config{Provider: "marian"})
	assert.EqualError(t, err, "unknown MT provider: marian")

	_, err = Load(context.Background(), Config{Provider: "gemini"})
	assert.EqualError(t, err, "Gemini API key is required")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err = Load(context.Background(), Config{Endpoint: server.URL, Warmup: true})
	assert.ErrorContains(t, err, "model warmup failed")
}

type stubModel struct {
	calls int
	err   error
}

func (s *stubModel) Translate(context.Context, Request) (string, error) {
	s.calls++
	return "out", s.err
}

func (s *stubModel) Name() string { return "stub" }

func TestWithBreaker(t *testing.T) {
	stub := &stubModel{err: errors.New("down")}
	m := WithBreaker(stub, 1, time.Hour)

	_, err := m.Translate(context.Background(), Request{})
	assert.Error(t, err)
	_, err = m.Translate(context.Background(), Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "stub", m.Name())
}

func TestWithBreakerIgnoresCancelledCalls(t *testing.T) {
	stub := &stubModel{err: context.Canceled}
	m := WithBreaker(stub, 1, time.Hour)

	for i := 0; i < 3; i++ {
		_, err := m.Translate(context.Background(), Request{})
		assert.ErrorIs(t, err, context.Canceled)
	}
	stub.err = fmt.Errorf("request: %w", context.DeadlineExceeded)
	_, err := m.Translate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	stub.err = nil
	out, err := m.Translate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "out", out)
	assert.Equal(t, 5, stub.calls)
}

func TestGeminiPrompt(t *testing.T) {
	p := geminiPrompt(Request{Text: "Good night", Source: "eng_Latn", Target: "tam_Taml"})
	assert.Contains(t, p, "English [eng_Latn]")
	assert.Contains(t, p, "Tamil [tam_Taml]")
	assert.True(t, strings.HasSuffix(p, "Good night"))
}
