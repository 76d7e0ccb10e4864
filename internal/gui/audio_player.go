package gui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/translingo/internal/apperr"
)

// AudioPlayer is a custom widget for playing the current artifact
type AudioPlayer struct {
	widget.BaseWidget

	container   *fyne.Container
	playButton  *ttwidget.Button
	stopButton  *ttwidget.Button
	statusLabel *widget.Label

	play func(done func(error)) error
	stop func()

	audioFile string
	isPlaying bool
}

// NewAudioPlayer creates a new audio player widget. play starts playback
// of the current artifact and calls done when it ends; stop aborts it.
func NewAudioPlayer(play func(done func(error)) error, stop func()) *AudioPlayer {
	p := &AudioPlayer{play: play, stop: stop}

	// Create controls with tooltips
	p.playButton = ttwidget.NewButton("", p.onPlay)
	p.playButton.Icon = theme.MediaPlayIcon()
	p.playButton.SetToolTip("Play audio (Ctrl+P)")

	p.stopButton = ttwidget.NewButton("", p.onStop)
	p.stopButton.Icon = theme.MediaStopIcon()
	p.stopButton.SetToolTip("Stop audio")

	p.statusLabel = widget.NewLabel("No audio loaded")

	// Initially disable controls
	p.playButton.Disable()
	p.stopButton.Disable()

	p.container = container.NewHBox(
		p.playButton,
		p.stopButton,
		layout.NewSpacer(),
		p.statusLabel,
	)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *AudioPlayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// SetAudioFile sets the artifact to play; an empty path clears the player
func (p *AudioPlayer) SetAudioFile(audioFile string) {
	if audioFile == "" {
		p.Clear()
		return
	}
	if p.isPlaying {
		p.onStop()
	}
	p.audioFile = audioFile
	p.playButton.Enable()
	p.statusLabel.SetText(fmt.Sprintf("Audio: %s", filepath.Base(audioFile)))
}

// Clear clears the audio player
func (p *AudioPlayer) Clear() {
	if p.isPlaying {
		p.onStop()
	}
	p.audioFile = ""
	p.playButton.Disable()
	p.stopButton.Disable()
	p.statusLabel.SetText("No audio loaded")
}

// Play triggers audio playback
func (p *AudioPlayer) Play() {
	if !p.playButton.Disabled() && !p.isPlaying {
		p.onPlay()
	}
}

func (p *AudioPlayer) onPlay() {
	if p.audioFile == "" {
		return
	}

	if p.isPlaying {
		p.onStop()
		return
	}

	file := p.audioFile
	err := p.play(func(err error) {
		fyne.Do(func() {
			if p.audioFile != file {
				return
			}
			p.isPlaying = false
			p.playButton.SetIcon(theme.MediaPlayIcon())
			p.stopButton.Disable()
			if err != nil {
				p.statusLabel.SetText(fmt.Sprintf("Playback failed: %s", filepath.Base(file)))
				return
			}
			p.statusLabel.SetText(fmt.Sprintf("Finished: %s", filepath.Base(file)))
		})
	})
	if err != nil {
		p.statusLabel.SetText(fmt.Sprintf("Error: %s", apperr.UserMessage(err)))
		return
	}

	p.isPlaying = true
	p.playButton.SetIcon(theme.MediaPauseIcon())
	p.stopButton.Enable()
	p.statusLabel.SetText(fmt.Sprintf("Playing: %s", filepath.Base(file)))
}

func (p *AudioPlayer) onStop() {
	p.stop()
	p.isPlaying = false
	p.playButton.SetIcon(theme.MediaPlayIcon())
	p.stopButton.Disable()
	if p.audioFile != "" {
		p.statusLabel.SetText(fmt.Sprintf("Stopped: %s", filepath.Base(p.audioFile)))
	}
}
