package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/snonux/translingo/internal/langcode"
)

const (
	googleTTSURL     = "https://translate.google.com/translate_tts"
	googleTTSTimeout = 30 * time.Second

	// maxChunkRunes is the longest text the endpoint accepts per request
	maxChunkRunes = 100
)

// GoogleProvider uses the Google Translate speech endpoint, which
// returns MP3 audio
type GoogleProvider struct {
	endpoint   string
	httpClient *http.Client
}

// NewGoogleProvider creates a provider for the default endpoint
func NewGoogleProvider() *GoogleProvider {
	return NewGoogleProviderWithEndpoint(googleTTSURL)
}

// NewGoogleProviderWithEndpoint points the provider at another endpoint
func NewGoogleProviderWithEndpoint(endpoint string) *GoogleProvider {
	return &GoogleProvider{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: googleTTSTimeout,
		},
	}
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// IsAvailable always succeeds; the endpoint needs no credentials
func (p *GoogleProvider) IsAvailable() error {
	return nil
}

// GenerateAudio synthesizes text chunk by chunk into one MP3 file
func (p *GoogleProvider) GenerateAudio(ctx context.Context, text string, lang langcode.APICode, outputFile string) error {
	if err := ValidateRequest(text, lang); err != nil {
		return err
	}

	if dir := filepath.Dir(outputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	chunks := splitText(strings.TrimSpace(text), maxChunkRunes)
	var written int64
	for i, chunk := range chunks {
		n, err := p.fetchChunk(ctx, out, chunk, lang, i, len(chunks))
		if err != nil {
			out.Close()
			os.Remove(outputFile)
			return err
		}
		written += n
	}

	if written == 0 {
		out.Close()
		os.Remove(outputFile)
		return fmt.Errorf("no audio data received from Google TTS")
	}
	return nil
}

func (p *GoogleProvider) fetchChunk(ctx context.Context, w io.Writer, chunk string, lang langcode.APICode, idx, total int) (int64, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", string(lang))
	params.Set("q", chunk)
	params.Set("idx", strconv.Itoa(idx))
	params.Set("total", strconv.Itoa(total))
	params.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("Google TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("Google TTS returned status %d", resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to write audio file: %w", err)
	}
	return n, nil
}

// splitText breaks text into chunks of at most limit runes, preferring
// word boundaries
func splitText(text string, limit int) []string {
	var (
		chunks  []string
		current []rune
	)

	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}

		need := len(runes)
		if len(current) > 0 {
			need++
		}
		if len(current)+need > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, runes...)
	}
	flush()

	return chunks
}
