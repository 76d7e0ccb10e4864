package gui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/translingo/internal"
	"codeberg.org/snonux/translingo/internal/apperr"
	"codeberg.org/snonux/translingo/internal/langcode"
	"codeberg.org/snonux/translingo/internal/session"
)

// detectLanguage is the source option that asks for auto-detection
const detectLanguage = "Detect language"

const (
	defaultSource = "English"
	defaultTarget = "Hindi"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	inputEntry   *CustomMultiLineEntry
	sourceSelect *widget.Select
	targetSelect *widget.Select
	translateBtn *ttwidget.Button
	pasteBtn     *ttwidget.Button
	clearBtn     *ttwidget.Button
	outputLabel  *widget.Label
	copyBtn      *ttwidget.Button
	saveAudioBtn *ttwidget.Button
	clearHistBtn *ttwidget.Button
	historyList  *widget.List
	audioPlayer  *AudioPlayer
	statusLabel  *widget.Label
	logViewer    *LogViewer

	// state is only read and written on the UI goroutine
	state   session.State
	session *session.Session
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the desktop window around sess. logs, when set, is shown
// in the log tab.
func New(sess *session.Session, log *zap.Logger, logs *LogBuffer) *Application {
	if log == nil {
		log = zap.NewNop()
	}
	if logs == nil {
		logs = NewLogBuffer(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Application{
		app:     app.NewWithID("org.codeberg.snonux.translingo"),
		session: sess,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	a.setupUI(logs)
	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI(logs *LogBuffer) {
	a.window = a.app.NewWindow(fmt.Sprintf("Translingo v%s - Translator", internal.Version))
	a.window.Resize(fyne.NewSize(800, 700))

	// Input section
	a.inputEntry = NewCustomMultiLineEntry()
	a.inputEntry.SetPlaceHolder("Enter text to translate... Press Escape to leave the field")
	a.inputEntry.SetMinRowsVisible(5)
	a.inputEntry.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})
	a.inputEntry.OnChanged = func(text string) {
		a.state = a.session.SetInput(a.state, text)
	}

	sources := append([]string{detectLanguage}, langcode.APILanguages.Names()...)
	a.sourceSelect = widget.NewSelect(sources, nil)
	a.sourceSelect.SetSelected(defaultSource)

	a.targetSelect = widget.NewSelect(langcode.APILanguages.Names(), nil)
	a.targetSelect.SetSelected(defaultTarget)

	swapBtn := ttwidget.NewButtonWithIcon("", theme.ViewRefreshIcon(), a.onSwapLanguages)

	a.pasteBtn = ttwidget.NewButtonWithIcon("", theme.ContentPasteIcon(), a.onPaste)
	a.translateBtn = ttwidget.NewButtonWithIcon("Translate", theme.ConfirmIcon(), a.onTranslate)
	a.translateBtn.Importance = widget.HighImportance
	a.clearBtn = ttwidget.NewButtonWithIcon("", theme.ContentClearIcon(), a.onClear)

	languageRow := container.NewHBox(
		widget.NewLabel("From:"),
		a.sourceSelect,
		swapBtn,
		widget.NewLabel("To:"),
		a.targetSelect,
		layout.NewSpacer(),
		a.pasteBtn,
		a.clearBtn,
		a.translateBtn,
	)

	inputSection := container.NewBorder(
		widget.NewLabel("Text:"),
		languageRow,
		nil, nil,
		a.inputEntry,
	)

	// Output section
	a.outputLabel = widget.NewLabel("")
	a.outputLabel.Wrapping = fyne.TextWrapWord
	outputScroll := container.NewScroll(a.outputLabel)
	outputScroll.SetMinSize(fyne.NewSize(0, 120))

	a.copyBtn = ttwidget.NewButtonWithIcon("", theme.ContentCopyIcon(), a.onCopy)
	a.saveAudioBtn = ttwidget.NewButtonWithIcon("", theme.DocumentSaveIcon(), a.onSaveAudio)
	a.audioPlayer = NewAudioPlayer(
		func(done func(error)) error { return a.session.Play(a.state, done) },
		a.session.StopPlayback,
	)

	outputFooter := container.NewBorder(nil, nil,
		container.NewHBox(a.copyBtn, a.saveAudioBtn),
		nil,
		a.audioPlayer,
	)

	outputSection := container.NewBorder(
		widget.NewLabel("Translation:"),
		outputFooter,
		nil, nil,
		outputScroll,
	)

	// History and log tabs
	a.historyList = widget.NewList(
		func() int { return len(a.state.History) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(a.state.History) {
				obj.(*widget.Label).SetText(session.HistoryLine(a.state.History[id]))
			}
		},
	)
	a.historyList.OnSelected = func(id widget.ListItemID) {
		if id < len(a.state.History) {
			rec := a.state.History[id]
			a.outputLabel.SetText(rec.TranslatedText)
		}
		a.historyList.UnselectAll()
	}
	a.clearHistBtn = ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), a.onClearHistory)

	historyTab := container.NewBorder(nil,
		container.NewHBox(layout.NewSpacer(), a.clearHistBtn),
		nil, nil,
		a.historyList,
	)

	a.logViewer = NewLogViewer(logs)
	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("History", theme.HistoryIcon(), historyTab),
		container.NewTabItemWithIcon("Log", theme.ListIcon(), a.logViewer),
	)

	a.statusLabel = widget.NewLabel("Ready")

	top := container.NewVSplit(inputSection, outputSection)
	top.SetOffset(0.5)
	body := container.NewVSplit(top, tabs)
	body.SetOffset(0.65)

	content := container.NewBorder(
		nil,
		container.NewVBox(widget.NewSeparator(), a.statusLabel),
		nil, nil,
		body,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()
	swapBtn.SetToolTip("Swap languages")

	a.setOutputActionsEnabled(false)

	a.window.SetOnClosed(func() {
		a.cancel()
		a.session.StopPlayback()
	})

	a.setupKeyboardShortcuts()
}

func (a *Application) setupTooltips() {
	a.translateBtn.SetToolTip("Translate (Ctrl+Enter)")
	a.pasteBtn.SetToolTip("Paste from clipboard")
	a.clearBtn.SetToolTip("Clear text (Ctrl+L)")
	a.copyBtn.SetToolTip("Copy translation")
	a.saveAudioBtn.SetToolTip("Save audio as... (Ctrl+S)")
	a.clearHistBtn.SetToolTip("Clear history")
}

func (a *Application) setupKeyboardShortcuts() {
	shortcuts := []struct {
		key    fyne.KeyName
		action func()
	}{
		{fyne.KeyReturn, a.onTranslate},
		{fyne.KeyL, a.onClear},
		{fyne.KeyS, a.onSaveAudio},
		{fyne.KeyP, func() { a.audioPlayer.Play() }},
	}
	for _, s := range shortcuts {
		action := s.action
		a.window.Canvas().AddShortcut(
			&desktop.CustomShortcut{KeyName: s.key, Modifier: fyne.KeyModifierShortcutDefault},
			func(fyne.Shortcut) { action() },
		)
	}
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.Canvas().Focus(a.inputEntry)
	a.window.ShowAndRun()
}

// onTranslate runs one translation off the UI goroutine. The translate
// button stays disabled until it finishes, so actions never overlap.
func (a *Application) onTranslate() {
	if a.translateBtn.Disabled() {
		return
	}

	src := langcode.Auto
	if name := a.sourceSelect.Selected; name != detectLanguage {
		code, ok := langcode.APILanguages.Code(name)
		if !ok {
			a.showError(apperr.Validationf("Please choose a source language."))
			return
		}
		src = code
	}
	tgt, ok := langcode.APILanguages.Code(a.targetSelect.Selected)
	if !ok {
		a.showError(apperr.Validationf("Please choose a target language."))
		return
	}

	st := a.state
	text := a.inputEntry.Text

	a.setBusy(true)
	a.statusLabel.SetText("Translating...")

	go func() {
		next, out, err := a.session.Translate(a.ctx, st, text, src, tgt)
		fyne.Do(func() {
			a.setBusy(false)
			if err != nil {
				a.statusLabel.SetText("Ready")
				a.showError(err)
				return
			}
			a.applyOutcome(next, out)
		})
	}()
}

func (a *Application) applyOutcome(next session.State, out session.Outcome) {
	a.state = mergeOutcome(a.state, next, out)
	a.outputLabel.SetText(out.Record.TranslatedText)
	a.historyList.Refresh()
	a.historyList.ScrollToBottom()
	a.setOutputActionsEnabled(true)
	a.audioPlayer.SetAudioFile(a.state.AudioPath)

	var notes []string
	if out.AudioErr != nil {
		notes = append(notes, apperr.UserMessage(out.AudioErr))
	}
	if out.LogErr != nil {
		notes = append(notes, apperr.UserMessage(out.LogErr))
	}
	if len(notes) > 0 {
		a.statusLabel.SetText("Translated, but: " + strings.Join(notes, "; "))
		return
	}

	a.statusLabel.SetText(fmt.Sprintf("Translated from %s to %s",
		session.LanguageName(out.Record.SourceCode), session.LanguageName(out.Record.TargetCode)))
	a.audioPlayer.Play()
}

// mergeOutcome applies a finished translation to the current state. The
// input typed and the history cleared while it ran are kept.
func mergeOutcome(cur, next session.State, out session.Outcome) session.State {
	merged := cur
	merged.AudioPath = next.AudioPath
	merged.History = append(cur.History[:len(cur.History):len(cur.History)], out.Record)
	return merged
}

func (a *Application) onPaste() {
	text := a.window.Clipboard().Content()
	if text == "" {
		return
	}
	a.inputEntry.SetText(text)
}

func (a *Application) onCopy() {
	if a.outputLabel.Text == "" {
		return
	}
	a.window.Clipboard().SetContent(a.outputLabel.Text)
	a.statusLabel.SetText("Translation copied to clipboard")
}

func (a *Application) onClear() {
	a.state = a.session.Clear(a.state)
	a.inputEntry.SetText("")
	a.outputLabel.SetText("")
	a.audioPlayer.Clear()
	a.setOutputActionsEnabled(false)
	a.statusLabel.SetText("Ready")
	a.window.Canvas().Focus(a.inputEntry)
}

func (a *Application) onClearHistory() {
	dialog.ShowConfirm("Clear history", "Remove all entries from the history list? The translation log file is kept.", func(ok bool) {
		if !ok {
			return
		}
		a.state = a.session.ClearHistory(a.state)
		a.historyList.Refresh()
	}, a.window)
}

func (a *Application) onSwapLanguages() {
	src := a.sourceSelect.Selected
	if src == detectLanguage {
		return
	}
	a.sourceSelect.SetSelected(a.targetSelect.Selected)
	a.targetSelect.SetSelected(src)
}

func (a *Application) onSaveAudio() {
	if a.state.AudioPath == "" {
		a.showError(apperr.Validationf("No audio available. Translate something first."))
		return
	}

	st := a.state
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if writer == nil {
			return
		}
		dst := writer.URI().Path()
		writer.Close()

		if err := a.session.SaveAudio(st, dst); err != nil {
			a.showError(err)
			return
		}
		a.statusLabel.SetText(fmt.Sprintf("Audio saved to %s", dst))
	}, a.window)
	d.SetFileName("translated_output.mp3")
	d.Show()
}

func (a *Application) setBusy(busy bool) {
	if busy {
		a.translateBtn.Disable()
		a.clearBtn.Disable()
		return
	}
	a.translateBtn.Enable()
	a.clearBtn.Enable()
}

func (a *Application) setOutputActionsEnabled(enabled bool) {
	if enabled {
		a.copyBtn.Enable()
		a.saveAudioBtn.Enable()
		return
	}
	a.copyBtn.Disable()
	a.saveAudioBtn.Disable()
}

// showError shows the user-facing message of err. Unclassified errors
// are logged since they indicate a bug rather than a handled failure.
func (a *Application) showError(err error) {
	if apperr.KindOf(err) == apperr.Unknown {
		a.log.Error("unexpected error", zap.Error(err))
	}
	dialog.ShowError(errors.New(apperr.UserMessage(err)), a.window)
}
