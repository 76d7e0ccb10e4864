package mt

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/snonux/translingo/internal/langcode"
)

// DefaultGeminiModel is used when no model ID is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiModel prompts a Gemini model with the NLLB language tags
type GeminiModel struct {
	client    *genai.Client
	modelID   string
	maxTokens int
}

// NewGeminiModel creates the Gemini client
func NewGeminiModel(ctx context.Context, cfg Config) (*GeminiModel, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.Token,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" && cfg.Endpoint != DefaultHFEndpoint {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelID := cfg.ModelID
	if modelID == "" || modelID == DefaultHFModel {
		modelID = DefaultGeminiModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &GeminiModel{client: client, modelID: modelID, maxTokens: maxTokens}, nil
}

// Name returns the backend name
func (m *GeminiModel) Name() string {
	return "gemini"
}

// Translate runs one generation on the model
func (m *GeminiModel) Translate(ctx context.Context, req Request) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.modelID, genai.Text(geminiPrompt(req)), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: int32(m.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return out, nil
}

func geminiPrompt(req Request) string {
	return fmt.Sprintf("Translate the text below from %s to %s. Respond with only the translation.\n\n%s",
		describeTag(req.Source), describeTag(req.Target), req.Text)
}

func describeTag(c langcode.ModelCode) string {
	if name, ok := langcode.ModelLanguages.Name(c); ok {
		return fmt.Sprintf("%s [%s]", name, c)
	}
	return string(c)
}
