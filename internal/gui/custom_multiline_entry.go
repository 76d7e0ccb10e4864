package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// CustomMultiLineEntry is the word-wrapping text input of the
// translator. Escape hands focus back to the window so that the
// Ctrl shortcuts reach the canvas instead of the entry.
type CustomMultiLineEntry struct {
	widget.Entry
	onEscape func()
}

// NewCustomMultiLineEntry creates a new custom multi-line entry
func NewCustomMultiLineEntry() *CustomMultiLineEntry {
	entry := &CustomMultiLineEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *CustomMultiLineEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// SetOnEscape sets the callback for when Escape is pressed. Without one
// Escape is passed on to the entry.
func (e *CustomMultiLineEntry) SetOnEscape(f func()) {
	e.onEscape = f
}
