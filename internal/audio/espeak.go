package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/snonux/translingo/internal/langcode"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Speed     int // Speech speed in words per minute (default: 150)
	Pitch     int // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int // Volume/amplitude, 0 to 200 (default: 100)
}

// DefaultESpeakConfig returns the default espeak-ng settings
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
	}
}

// ESpeakProvider is an offline provider backed by espeak-ng and ffmpeg.
// It is meant as a fallback when the network providers are unreachable.
type ESpeakProvider struct {
	config *ESpeakConfig
	run    func(ctx context.Context, name string, args ...string) error
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *ESpeakConfig) *ESpeakProvider {
	if config == nil {
		config = DefaultESpeakConfig()
	}
	return &ESpeakProvider{config: config, run: runCommand}
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng and ffmpeg are installed
func (p *ESpeakProvider) IsAvailable() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}
	return nil
}

// GenerateAudio renders a WAV with espeak-ng and converts it to outputFile
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text string, lang langcode.APICode, outputFile string) error {
	if err := ValidateRequest(text, lang); err != nil {
		return err
	}

	if dir := filepath.Dir(outputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
	defer os.Remove(tempWAV)

	if err := p.run(ctx, "espeak-ng", p.args(text, lang, tempWAV)...); err != nil {
		return fmt.Errorf("espeak-ng failed: %w", err)
	}

	if err := p.run(ctx, "ffmpeg", "-loglevel", "error", "-i", tempWAV, "-acodec", "mp3", "-y", outputFile); err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w", err)
	}
	return nil
}

func (p *ESpeakProvider) args(text string, lang langcode.APICode, wavFile string) []string {
	return []string{
		"-v", espeakVoice(lang),
		"-s", strconv.Itoa(p.config.Speed),
		"-p", strconv.Itoa(p.config.Pitch),
		"-a", strconv.Itoa(p.config.Amplitude),
		"-w", wavFile,
		text,
	}
}

// espeakVoice maps API codes onto espeak-ng voice names
func espeakVoice(lang langcode.APICode) string {
	switch lang {
	case "zh-cn":
		return "cmn"
	case "zh-tw":
		return "yue"
	case "no":
		return "nb"
	default:
		return string(lang)
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w\nOutput: %s", err, string(output))
	}
	return nil
}
