package audio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"codeberg.org/snonux/translingo/internal/langcode"
)

func TestESpeakProvider_GenerateAudio(t *testing.T) {
	var calls [][]string
	p := NewESpeakProvider(nil)
	p.run = func(ctx context.Context, name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}

	out := t.TempDir() + "/out.mp3"
	if err := p.GenerateAudio(context.Background(), "你好", "zh-cn", out); err != nil {
		t.Fatalf("GenerateAudio failed: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("Expected espeak-ng and ffmpeg calls, got %v", calls)
	}
	if calls[0][0] != "espeak-ng" || calls[0][2] != "cmn" {
		t.Errorf("Unexpected espeak-ng invocation %v", calls[0])
	}
	if calls[1][0] != "ffmpeg" || calls[1][len(calls[1])-1] != out {
		t.Errorf("Unexpected ffmpeg invocation %v", calls[1])
	}
}

func TestESpeakProvider_Failure(t *testing.T) {
	p := NewESpeakProvider(DefaultESpeakConfig())
	p.run = func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	}

	err := p.GenerateAudio(context.Background(), "hi", "en", t.TempDir()+"/out.mp3")
	if err == nil || !strings.Contains(err.Error(), "espeak-ng failed") {
		t.Fatalf("Expected espeak-ng error, got %v", err)
	}
}

func TestESpeakVoice(t *testing.T) {
	tests := map[langcode.APICode]string{
		"en":    "en",
		"zh-cn": "cmn",
		"zh-tw": "yue",
		"no":    "nb",
		"hi":    "hi",
	}
	for code, want := range tests {
		if got := espeakVoice(code); got != want {
			t.Errorf("espeakVoice(%q) = %q, want %q", code, got, want)
		}
	}
}
