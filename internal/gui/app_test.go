package gui

import (
	"testing"
	"time"

	"codeberg.org/snonux/translingo/internal/history"
	"codeberg.org/snonux/translingo/internal/session"
)

func TestMergeOutcome(t *testing.T) {
	earlier := history.NewRecord(time.Now(), "Hi", "Salut", "en", "fr")
	rec := history.NewRecord(time.Now(), "Hello", "नमस्ते", "en", "hi")

	tests := []struct {
		name        string
		cur         session.State
		wantInput   string
		wantHistory int
	}{
		{
			name:        "input edited while translating",
			cur:         session.State{Input: "Hello again", History: []history.Record{earlier}},
			wantInput:   "Hello again",
			wantHistory: 2,
		},
		{
			name:        "history cleared while translating",
			cur:         session.State{Input: "Hello"},
			wantInput:   "Hello",
			wantHistory: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := session.State{
				Input:     "Hello",
				AudioPath: "/tmp/translated_output_1.mp3",
				History:   []history.Record{earlier, rec},
			}

			got := mergeOutcome(tt.cur, next, session.Outcome{Record: rec})

			if got.Input != tt.wantInput {
				t.Errorf("Input = %q, want %q", got.Input, tt.wantInput)
			}
			if got.AudioPath != next.AudioPath {
				t.Errorf("AudioPath = %q, want %q", got.AudioPath, next.AudioPath)
			}
			if len(got.History) != tt.wantHistory {
				t.Fatalf("History has %d records, want %d", len(got.History), tt.wantHistory)
			}
			if last := got.History[len(got.History)-1]; last.TranslatedText != rec.TranslatedText {
				t.Errorf("last record = %q, want %q", last.TranslatedText, rec.TranslatedText)
			}
		})
	}
}

func TestMergeOutcomeDoesNotShareHistory(t *testing.T) {
	backing := make([]history.Record, 1, 4)
	backing[0] = history.NewRecord(time.Now(), "Hi", "Salut", "en", "fr")
	cur := session.State{History: backing}

	a := mergeOutcome(cur, session.State{}, session.Outcome{Record: history.NewRecord(time.Now(), "a", "A", "en", "fr")})
	b := mergeOutcome(cur, session.State{}, session.Outcome{Record: history.NewRecord(time.Now(), "b", "B", "en", "fr")})

	if a.History[1].SourceText != "a" || b.History[1].SourceText != "b" {
		t.Errorf("merged histories alias each other: %q, %q", a.History[1].SourceText, b.History[1].SourceText)
	}
}
