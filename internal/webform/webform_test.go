package webform

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/translingo/internal/apperr"
	"codeberg.org/snonux/translingo/internal/cache"
	"codeberg.org/snonux/translingo/internal/langcode"
	"codeberg.org/snonux/translingo/internal/testutil"
)

const (
	timeout = 2 * time.Second
	tick    = 10 * time.Millisecond
)

func TestTranslate(t *testing.T) {
	model := &testutil.MockModel{Translations: map[string]string{"Hello": "नमस्ते"}}
	h := NewHandler(model, Options{})

	out, err := h.Translate(context.Background(), " Hello ", "English", "Hindi")
	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", out)

	calls := model.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, langcode.ModelCode("eng_Latn"), calls[0].Source)
	assert.Equal(t, langcode.ModelCode("hin_Deva"), calls[0].Target)
	assert.Equal(t, "Hello", calls[0].Text)
}

func TestTranslate_AcceptsModelTags(t *testing.T) {
	model := &testutil.MockModel{}
	h := NewHandler(model, Options{})

	_, err := h.Translate(context.Background(), "Hello", "eng_Latn", "tam_Taml")
	require.NoError(t, err)
	assert.Len(t, model.Calls(), 1)
}

func TestTranslate_AcceptsAPICodes(t *testing.T) {
	model := &testutil.MockModel{}
	h := NewHandler(model, Options{})

	_, err := h.Translate(context.Background(), "Hello", "en", "ur")
	require.NoError(t, err)

	calls := model.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, langcode.ModelCode("eng_Latn"), calls[0].Source)
	assert.Equal(t, langcode.ModelCode("urd_Arab"), calls[0].Target)

	_, err = h.Translate(context.Background(), "Hello", "en", "eng_Latn")
	assert.True(t, apperr.IsValidation(err), "identical languages in both vocabularies, got %v", err)
}

func TestTranslate_Rejections(t *testing.T) {
	tests := []struct {
		name, text, src, tgt string
	}{
		{"empty", "", "English", "Hindi"},
		{"whitespace", " \t\n", "English", "Hindi"},
		{"identical names", "Hello", "English", "English"},
		{"identical by name and tag", "Hello", "English", "eng_Latn"},
		{"unknown source", "Hello", "Klingon", "Hindi"},
		{"api code outside the model table", "Hello", "fr", "Hindi"},
		{"over budget", strings.Repeat("word ", 500), "English", "Hindi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &testutil.MockModel{}
			h := NewHandler(model, Options{})

			_, err := h.Translate(context.Background(), tt.text, tt.src, tt.tgt)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
			assert.Empty(t, model.Calls())
		})
	}
}

func TestTranslate_ModelFailure(t *testing.T) {
	h := NewHandler(&testutil.MockModel{Err: errors.New("503 loading")}, Options{})

	_, err := h.Translate(context.Background(), "Hello", "English", "Hindi")
	assert.True(t, apperr.IsService(err))
	assert.NotContains(t, apperr.UserMessage(err), "503")
}

func TestTranslate_Cache(t *testing.T) {
	model := &testutil.MockModel{}
	c := cache.NewMemoryCache()
	h := NewHandler(model, Options{Cache: c})
	ctx := context.Background()

	first, err := h.Translate(ctx, "Hello", "English", "Tamil")
	require.NoError(t, err)
	second, err := h.Translate(ctx, "Hello", "English", "Tamil")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, model.Calls(), 1)
	assert.Equal(t, 1, c.Len())
}

func TestTranslate_CollapsesConcurrentRequests(t *testing.T) {
	model := &testutil.MockModel{Block: make(chan struct{})}
	h := NewHandler(model, Options{})

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = h.Translate(context.Background(), "Hello", "English", "Urdu")
		}(i)
	}

	// Hold the first call at the model until the others have joined it
	require.Eventually(t, func() bool { return len(model.Calls()) == 1 }, timeout, tick)
	time.Sleep(100 * time.Millisecond)
	close(model.Block)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "Hello [urd_Arab]", results[i])
	}
	assert.Len(t, model.Calls(), 1)
}

func TestTranslate_CancelledCallerDoesNotFailOthers(t *testing.T) {
	model := &testutil.MockModel{Block: make(chan struct{})}
	h := NewHandler(model, Options{Cache: cache.NewMemoryCache()})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := h.Translate(firstCtx, "Hello", "English", "Urdu")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return len(model.Calls()) == 1 }, timeout, tick)

	type result struct {
		out string
		err error
	}
	second := make(chan result, 1)
	go func() {
		out, err := h.Translate(context.Background(), "Hello", "English", "Urdu")
		second <- result{out, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(timeout):
		t.Fatal("cancelled request did not return")
	}

	close(model.Block)
	select {
	case r := <-second:
		require.NoError(t, r.err)
		assert.Equal(t, "Hello [urd_Arab]", r.out)
	case <-time.After(timeout):
		t.Fatal("second request did not return")
	}
	assert.Len(t, model.Calls(), 1)
}

func TestTranslate_SharedCallIsBounded(t *testing.T) {
	model := &testutil.MockModel{Block: make(chan struct{})}
	h := NewHandler(model, Options{CallTimeout: 20 * time.Millisecond})

	_, err := h.Translate(context.Background(), "Hello", "English", "Urdu")
	assert.True(t, apperr.IsService(err), "got %v", err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func newServer(t *testing.T, model *testutil.MockModel, cfg RouterConfig) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewHandler(model, Options{}).Routes(cfg))
	t.Cleanup(srv.Close)
	return srv
}

func TestFormPage(t *testing.T) {
	srv := newServer(t, &testutil.MockModel{}, RouterConfig{})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, langcode.ModelLanguages.Len(), doc.Find("#source option").Length())
	assert.Equal(t, "English", doc.Find("#source option[selected]").Text())
	assert.Equal(t, "Hindi", doc.Find("#target option[selected]").Text())
	assert.Equal(t, 0, doc.Find("#error").Length())
}

func TestFormSubmit(t *testing.T) {
	model := &testutil.MockModel{Translations: map[string]string{"Good morning": "சுப்ரபாதம்"}}
	srv := newServer(t, model, RouterConfig{})

	resp, err := http.PostForm(srv.URL+"/translate", url.Values{
		"text":   {"Good morning"},
		"source": {"English"},
		"target": {"Tamil"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "சுப்ரபாதம்", strings.TrimSpace(doc.Find("#translation").Text()))
	assert.Equal(t, "Good morning", doc.Find("#text").Text())
	assert.Equal(t, "Tamil", doc.Find("#target option[selected]").Text())
}

func TestFormSubmit_ShowsValidationError(t *testing.T) {
	model := &testutil.MockModel{}
	srv := newServer(t, model, RouterConfig{})

	resp, err := http.PostForm(srv.URL+"/translate", url.Values{
		"text":   {"Hello"},
		"source": {"Hindi"},
		"target": {"Hindi"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, doc.Find("#error").Text(), "same")
	assert.Empty(t, strings.TrimSpace(doc.Find("#translation").Text()))
	assert.Empty(t, model.Calls())
}

func TestAPITranslate(t *testing.T) {
	srv := newServer(t, &testutil.MockModel{Translations: map[string]string{"Hello": "হ্যালো"}}, RouterConfig{})

	body, _ := json.Marshal(translateRequest{Text: "Hello", Source: "English", Target: "ben_Beng"})
	resp, err := http.Post(srv.URL+"/api/translate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out translateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "হ্যালো", out.Translation)
	assert.Empty(t, out.Error)
}

func TestAPITranslate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		model  *testutil.MockModel
		body   string
		status int
	}{
		{"bad json", &testutil.MockModel{}, `{`, http.StatusBadRequest},
		{"body too large", &testutil.MockModel{}, `{"text":"` + strings.Repeat("a", maxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
		{"validation", &testutil.MockModel{}, `{"text":"","source":"English","target":"Hindi"}`, http.StatusUnprocessableEntity},
		{"service", &testutil.MockModel{Err: errors.New("down")}, `{"text":"Hi","source":"English","target":"Hindi"}`, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.model, RouterConfig{})
			resp, err := http.Post(srv.URL+"/api/translate", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var out translateResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.NotEmpty(t, out.Error)
		})
	}
}

func TestAPILanguages(t *testing.T) {
	srv := newServer(t, &testutil.MockModel{}, RouterConfig{})

	resp, err := http.Get(srv.URL + "/api/languages")
	require.NoError(t, err)
	defer resp.Body.Close()

	var langs []language
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&langs))
	require.Len(t, langs, langcode.ModelLanguages.Len())
	assert.Equal(t, language{Name: "English", Code: "eng_Latn", APICode: "en"}, langs[0])
	for _, l := range langs {
		assert.NotEmpty(t, l.APICode, "no API code for %s", l.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newServer(t, &testutil.MockModel{}, RouterConfig{RateLimit: 1})

	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "health checks are not rate limited")
	}
}

func TestRateLimit(t *testing.T) {
	srv := newServer(t, &testutil.MockModel{}, RouterConfig{RateLimit: 2})

	var last int
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestCORS(t *testing.T) {
	srv := newServer(t, &testutil.MockModel{}, RouterConfig{AllowedOrigins: []string{"https://example.org"}})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/languages", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "https://example.org", resp.Header.Get("Access-Control-Allow-Origin"))
}
