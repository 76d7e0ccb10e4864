package session

import (
	"fmt"

	"codeberg.org/snonux/translingo/internal/history"
	"codeberg.org/snonux/translingo/internal/langcode"
)

// State is everything the desktop window shows. Values are never
// mutated by the session; actions return a new State.
type State struct {
	Input     string
	AudioPath string // current artifact, empty when there is none
	History   []history.Record
}

// Outcome describes the side results of a successful translation
type Outcome struct {
	Record    history.Record
	AudioPath string
	AudioErr  error // synthesis failed, the translation still stands
	LogErr    error // durable log append failed
}

// withRecord returns a copy of h with r appended, never sharing the
// backing array of h
func withRecord(h []history.Record, r history.Record) []history.Record {
	out := make([]history.Record, len(h), len(h)+1)
	copy(out, h)
	return append(out, r)
}

// HistoryLine renders a record the way the history list shows it
func HistoryLine(r history.Record) string {
	return fmt.Sprintf("From %s to %s: %s", LanguageName(r.SourceCode), LanguageName(r.TargetCode), r.TranslatedText)
}

// LanguageName returns the display name of an API code, or the code
// itself when it is not in the table
func LanguageName(code string) string {
	if name, ok := langcode.APILanguages.Name(langcode.APICode(code)); ok {
		return name
	}
	return code
}
