package audio

import (
	"context"
	"fmt"

	"codeberg.org/snonux/translingo/internal/langcode"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio synthesizes text spoken in lang and saves it to outputFile
	GenerateAudio(ctx context.Context, text string, lang langcode.APICode, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider  string // "google", "openai" or "espeak"
	Fallback  string // optional provider used when the primary fails
	OutputDir string // Directory for audio artifacts

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // extra voice instructions for gpt-4o-mini-tts
	EnableCache       bool
	CacheDir          string

	// espeak-ng settings
	ESpeak *ESpeakConfig
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:    "google",
		OutputDir:   "./",
		OpenAIModel: "gpt-4o-mini-tts",
		OpenAIVoice: "alloy",
		OpenAISpeed: 1.0,
	}
}

// NewProvider creates the configured provider, wrapped with its fallback
// when one is set
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	primary, err := newNamedProvider(config.Provider, config)
	if err != nil {
		return nil, err
	}
	if config.Fallback == "" || config.Fallback == config.Provider {
		return primary, nil
	}

	fallback, err := newNamedProvider(config.Fallback, config)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}
	return NewProviderWithFallback(primary, fallback), nil
}

func newNamedProvider(name string, config *Config) (Provider, error) {
	switch name {
	case "google":
		return NewGoogleProvider(), nil

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	case "espeak":
		return NewESpeakProvider(config.ESpeak), nil

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, lang langcode.APICode, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, lang, outputFile)
	if err == nil {
		return nil
	}

	if ferr := p.fallback.GenerateAudio(ctx, text, lang, outputFile); ferr != nil {
		return fmt.Errorf("%s failed: %v; %s failed: %w", p.primary.Name(), err, p.fallback.Name(), ferr)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
