package mt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	DefaultHFEndpoint = "https://api-inference.huggingface.co/models/"
	DefaultHFModel    = "facebook/nllb-200-distilled-600M"

	hfTimeout = 60 * time.Second
)

// HuggingFaceModel calls an NLLB model behind the Hugging Face inference API
type HuggingFaceModel struct {
	url        string
	token      string
	maxTokens  int
	httpClient *http.Client
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	SrcLang   string `json:"src_lang"`
	TgtLang   string `json:"tgt_lang"`
	MaxLength int    `json:"max_length"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfTranslation struct {
	TranslationText string `json:"translation_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// NewHuggingFaceModel creates the inference API client
func NewHuggingFaceModel(cfg Config) (*HuggingFaceModel, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultHFEndpoint
	}
	modelID := cfg.ModelID
	if modelID == "" {
		modelID = DefaultHFModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &HuggingFaceModel{
		url:       strings.TrimRight(endpoint, "/") + "/" + modelID,
		token:     cfg.Token,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: hfTimeout,
		},
	}, nil
}

// Name returns the backend name
func (m *HuggingFaceModel) Name() string {
	return "huggingface"
}

// Translate runs one generation on the model
func (m *HuggingFaceModel) Translate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: req.Text,
		Parameters: hfParameters{
			SrcLang:   string(req.Source),
			TgtLang:   string(req.Target),
			MaxLength: m.maxTokens,
		},
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("inference API error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("inference API returned status %d", resp.StatusCode)
	}

	var out []hfTranslation
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out) == 0 || strings.TrimSpace(out[0].TranslationText) == "" {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(out[0].TranslationText), nil
}
