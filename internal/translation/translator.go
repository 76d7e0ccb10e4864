package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/translingo/internal/langcode"
)

// Translator translates text between two API language codes
type Translator interface {
	Translate(ctx context.Context, text string, src, tgt langcode.APICode) (string, error)
	Name() string
}

// DefaultOpenAIModel is the chat model used for translation
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAITranslator translates using OpenAI chat completions
type OpenAITranslator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAITranslator creates a new translator instance
func NewOpenAITranslator(apiKey, model string) *OpenAITranslator {
	return NewOpenAITranslatorWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewOpenAITranslatorWithConfig creates a translator with a custom client
// configuration, e.g. a different base URL
func NewOpenAITranslatorWithConfig(cfg openai.ClientConfig, model string) *OpenAITranslator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAITranslator{
		apiKey: cfg.AuthToken,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

// Name returns the backend name
func (t *OpenAITranslator) Name() string {
	return "openai"
}

// Translate translates text from src to tgt
func (t *OpenAITranslator) Translate(ctx context.Context, text string, src, tgt langcode.APICode) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a translation engine. Respond with only the translation, nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Translate the following text from %s to %s:\n\n%s", languageName(src), languageName(tgt), text),
			},
		},
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	translation := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translation == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return translation, nil
}

func languageName(code langcode.APICode) string {
	if name, ok := langcode.APILanguages.Name(code); ok {
		return fmt.Sprintf("%s (%s)", name, code)
	}
	return string(code)
}
