package translation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"codeberg.org/snonux/translingo/internal/langcode"
)

const (
	googleTranslateURL     = "https://translate.googleapis.com/translate_a/single"
	googleTranslateTimeout = 30 * time.Second
)

// GoogleTranslator uses the public Google Translate web endpoint
type GoogleTranslator struct {
	endpoint   string
	httpClient *http.Client
}

// NewGoogleTranslator creates a client for the default endpoint
func NewGoogleTranslator() *GoogleTranslator {
	return NewGoogleTranslatorWithEndpoint(googleTranslateURL)
}

// NewGoogleTranslatorWithEndpoint points the client at another endpoint
func NewGoogleTranslatorWithEndpoint(endpoint string) *GoogleTranslator {
	return &GoogleTranslator{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: googleTranslateTimeout,
		},
	}
}

// Name returns the backend name
func (g *GoogleTranslator) Name() string {
	return "google"
}

// Translate translates text from src to tgt
func (g *GoogleTranslator) Translate(ctx context.Context, text string, src, tgt langcode.APICode) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", string(src))
	params.Set("tl", string(tgt))
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google translate returned status %d", resp.StatusCode)
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse concatenates the translated segments of a gtx
// response: [[["Bonjour","Hello",...],...],null,"en",...]
func parseGoogleResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return out, nil
}
