package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"

	"codeberg.org/snonux/translingo/internal/history"
	"codeberg.org/snonux/translingo/internal/langcode"
	"codeberg.org/snonux/translingo/internal/mt"
)

// MockTranslator mocks the translation API
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	Calls        []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text string, src, tgt langcode.APICode) (string, error) {
	call := fmt.Sprintf("Translate: %s (%s->%s)", text, src, tgt)
	m.Calls = append(m.Calls, call)

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	// Default mock translation
	return fmt.Sprintf("mock translation of %s", text), nil
}

// Name returns the mock name
func (m *MockTranslator) Name() string {
	return "mock"
}

// MockProvider mocks a speech synthesis provider. Successful calls write
// a fake MP3 header to the output file.
type MockProvider struct {
	Err   error
	Calls []string
	Files []string
}

// GenerateAudio mocks synthesizing text
func (m *MockProvider) GenerateAudio(ctx context.Context, text string, lang langcode.APICode, outputFile string) error {
	m.Calls = append(m.Calls, fmt.Sprintf("TTS: %s (%s)", text, lang))
	if m.Err != nil {
		return m.Err
	}
	if err := os.WriteFile(outputFile, MockAudioData(), 0644); err != nil {
		return err
	}
	m.Files = append(m.Files, outputFile)
	return nil
}

// Name returns the mock name
func (m *MockProvider) Name() string {
	return "mock"
}

// IsAvailable always succeeds
func (m *MockProvider) IsAvailable() error {
	return nil
}

// MockModel mocks the MT model. It is safe for concurrent use.
type MockModel struct {
	Translations map[string]string
	Err          error
	// Block, when set, is waited on before every call returns
	Block chan struct{}

	mu    sync.Mutex
	calls []mt.Request
}

// Translate mocks translating a request
func (m *MockModel) Translate(ctx context.Context, req mt.Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if m.Err != nil {
		return "", m.Err
	}
	if translation, ok := m.Translations[req.Text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("%s [%s]", req.Text, req.Target), nil
}

// Name returns the mock name
func (m *MockModel) Name() string {
	return "mock"
}

// Calls returns a copy of the recorded requests
func (m *MockModel) Calls() []mt.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mt.Request(nil), m.calls...)
}

// MockSink mocks a history sink
type MockSink struct {
	Err     error
	Records []history.Record
}

// Append records r, or fails with Err
func (m *MockSink) Append(ctx context.Context, r history.Record) error {
	if m.Err != nil {
		return m.Err
	}
	m.Records = append(m.Records, r)
	return nil
}

// MockAudioData returns a minimal MP3 frame header
func MockAudioData() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
