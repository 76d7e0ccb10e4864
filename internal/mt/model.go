package mt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/translingo/internal/apperr"
	"codeberg.org/snonux/translingo/internal/langcode"
)

// DefaultMaxTokens is the generation budget of the model
const DefaultMaxTokens = 400

// Request is one translation request in the model's vocabulary
type Request struct {
	Text   string
	Source langcode.ModelCode
	Target langcode.ModelCode
}

// Model translates text. Implementations must be safe for concurrent use.
type Model interface {
	Translate(ctx context.Context, req Request) (string, error)
	Name() string
}

// Config selects and configures the model backend
type Config struct {
	Provider  string // "huggingface" or "gemini"
	ModelID   string
	Endpoint  string
	Token     string
	MaxTokens int
	Warmup    bool // issue one translation during Load

	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// DefaultConfig returns the default model configuration
func DefaultConfig() Config {
	return Config{
		Provider:           "huggingface",
		ModelID:            DefaultHFModel,
		Endpoint:           DefaultHFEndpoint,
		MaxTokens:          DefaultMaxTokens,
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	}
}

// Load initializes the model exactly once for the lifetime of the process
func Load(ctx context.Context, cfg Config) (Model, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	var (
		m   Model
		err error
	)
	switch cfg.Provider {
	case "huggingface", "":
		m, err = NewHuggingFaceModel(cfg)
	case "gemini":
		m, err = NewGeminiModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown MT provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.BreakerMaxFailures > 0 {
		m = WithBreaker(m, cfg.BreakerMaxFailures, cfg.BreakerTimeout)
	}

	if cfg.Warmup {
		if _, err := m.Translate(ctx, Request{Text: "Hello", Source: "eng_Latn", Target: "hin_Deva"}); err != nil {
			return nil, fmt.Errorf("model warmup failed: %w", err)
		}
	}

	return m, nil
}

// EstimateTokens approximates the subword token count of text: every
// word costs one token per four runes, plus the language tag and the
// end-of-sequence marker
func EstimateTokens(text string) int {
	n := 2
	for _, word := range strings.Fields(text) {
		n += (utf8.RuneCountInString(word) + 3) / 4
	}
	return n
}

// CheckBudget rejects input the model could not translate without
// cutting the output short
func CheckBudget(text string, maxTokens int) error {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if n := EstimateTokens(text); n > maxTokens {
		return apperr.Validationf("Input is too long (about %d tokens, the limit is %d). Please shorten it.", n, maxTokens)
	}
	return nil
}

type breakerModel struct {
	next Model
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker makes m fail fast after maxFailures consecutive failures
func WithBreaker(m Model, maxFailures uint32, timeout time.Duration) Model {
	return &breakerModel{
		next: m,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        m.Name(),
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			IsSuccessful: notBackendFailure,
		}),
	}
}

// notBackendFailure keeps cancelled and timed out calls from tripping
// the breaker
func notBackendFailure(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (b *breakerModel) Name() string { return b.next.Name() }

func (b *breakerModel) Translate(ctx context.Context, req Request) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, req)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
