package gui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogBuffer keeps the most recent log lines. It implements
// zapcore.WriteSyncer so it can be teed into the application logger
// before any window exists.
type LogBuffer struct {
	mu          sync.Mutex
	messages    []string
	maxMessages int
	onChange    func()
}

// NewLogBuffer creates a buffer holding at most max lines
func NewLogBuffer(max int) *LogBuffer {
	if max <= 0 {
		max = 1000
	}
	return &LogBuffer{maxMessages: max}
}

// Write implements io.Writer
func (b *LogBuffer) Write(p []byte) (int, error) {
	var notify func()

	b.mu.Lock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		// Newest first
		b.messages = append([]string{line}, b.messages...)
	}
	if len(b.messages) > b.maxMessages {
		b.messages = b.messages[:b.maxMessages]
	}
	notify = b.onChange
	b.mu.Unlock()

	if notify != nil {
		notify()
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer
func (b *LogBuffer) Sync() error {
	return nil
}

// Text returns the buffered lines, newest first
func (b *LogBuffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.messages, "\n")
}

// Clear drops all buffered lines
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	b.messages = b.messages[:0]
	notify := b.onChange
	b.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (b *LogBuffer) setOnChange(f func()) {
	b.mu.Lock()
	b.onChange = f
	b.mu.Unlock()
}

// LogViewer is a widget that displays a LogBuffer
type LogViewer struct {
	widget.BaseWidget

	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll
	buffer     *LogBuffer
}

// NewLogViewer creates a viewer for buffer
func NewLogViewer(buffer *LogBuffer) *LogViewer {
	v := &LogViewer{buffer: buffer}

	// Create log entry (read-only multiline)
	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable()
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.SetMinSize(fyne.NewSize(0, 180))
	v.scrollView.Direction = container.ScrollBoth

	v.container = container.NewBorder(
		widget.NewLabel("Log messages (newest first):"),
		nil,
		nil,
		nil,
		v.scrollView,
	)

	v.ExtendBaseWidget(v)

	v.logEntry.SetText(buffer.Text())
	buffer.setOnChange(func() {
		// Update UI on main thread
		fyne.Do(func() {
			v.logEntry.SetText(v.buffer.Text())
			v.scrollView.Offset = fyne.NewPos(0, 0)
			v.scrollView.Refresh()
		})
	})
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}
