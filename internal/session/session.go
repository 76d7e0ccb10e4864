package session

import (
	"context"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"codeberg.org/snonux/translingo/internal/apperr"
	"codeberg.org/snonux/translingo/internal/audio"
	"codeberg.org/snonux/translingo/internal/history"
	"codeberg.org/snonux/translingo/internal/langcode"
	"codeberg.org/snonux/translingo/internal/translation"
)

// Player plays an audio file in the background
type Player interface {
	Play(file string, done func(error)) error
	Stop()
}

// Keeper is told which artifact is current, e.g. so a cleanup job
// leaves it alone
type Keeper interface {
	Keep(path string)
}

// Deps are the collaborators of a Session. Player, Keeper, Now and
// Logger are optional.
type Deps struct {
	Translator translation.Translator
	Speech     audio.Provider
	Namer      *audio.Namer
	Sink       history.Sink
	Player     Player
	Keeper     Keeper
	Now        func() time.Time
	Logger     *zap.Logger
}

// Session runs desktop actions against injected collaborators
type Session struct {
	translator translation.Translator
	speech     audio.Provider
	namer      *audio.Namer
	sink       history.Sink
	player     Player
	keeper     Keeper
	now        func() time.Time
	log        *zap.Logger
}

// New creates a session
func New(d Deps) *Session {
	s := &Session{
		translator: d.Translator,
		speech:     d.Speech,
		namer:      d.Namer,
		sink:       d.Sink,
		player:     d.Player,
		keeper:     d.Keeper,
		now:        d.Now,
		log:        d.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.player == nil {
		s.player = audio.NewPlayer()
	}
	return s
}

// SetInput replaces the input text
func (s *Session) SetInput(st State, text string) State {
	st.Input = text
	return st
}

// Clear empties the input and drops the current artifact reference. The
// history is kept.
func (s *Session) Clear(st State) State {
	s.player.Stop()
	st.Input = ""
	st.AudioPath = ""
	return st
}

// ClearHistory drops the in-memory history. The durable log is untouched.
func (s *Session) ClearHistory(st State) State {
	st.History = nil
	return st
}

// Translate translates text from src to tgt, records it and synthesizes
// the translation. Validation and translation failures return st
// unchanged; log and synthesis failures are reported in the Outcome.
func (s *Session) Translate(ctx context.Context, st State, text string, src, tgt langcode.APICode) (State, Outcome, error) {
	text = norm.NFC.String(strings.TrimSpace(text))
	if text == "" {
		return st, Outcome{}, apperr.Validationf("Please enter some text to translate.")
	}

	if tgt.IsAuto() {
		return st, Outcome{}, apperr.Validationf("Please choose a target language.")
	}
	if !langcode.APILanguages.Contains(tgt) {
		return st, Outcome{}, apperr.Validationf("Unsupported target language %q.", tgt)
	}

	if src.IsAuto() {
		detected, err := langcode.Detect(text)
		if err != nil {
			return st, Outcome{}, err
		}
		s.log.Debug("detected source language", zap.String("lang", string(detected)))
		src = detected
	} else if !langcode.APILanguages.Contains(src) {
		return st, Outcome{}, apperr.Validationf("Unsupported source language %q.", src)
	}

	if src == tgt {
		return st, Outcome{}, apperr.Validationf("Source and target languages are the same. Please choose different languages.")
	}

	translated, err := s.translator.Translate(ctx, text, src, tgt)
	if err == nil && strings.TrimSpace(translated) == "" {
		err = errEmptyTranslation
	}
	if err != nil {
		s.log.Error("translation failed",
			zap.String("translator", s.translator.Name()),
			zap.String("src", string(src)),
			zap.String("tgt", string(tgt)),
			zap.Error(err))
		return st, Outcome{}, apperr.NewService("Translation", err)
	}

	rec := history.NewRecord(s.now(), text, translated, string(src), string(tgt))
	out := Outcome{Record: rec}

	next := st
	next.Input = text
	next.History = withRecord(st.History, rec)
	next.AudioPath = ""

	if s.sink != nil {
		if err := s.sink.Append(ctx, rec); err != nil {
			out.LogErr = apperr.NewIO("Writing the translation log", err)
			s.log.Warn("failed to append translation log", zap.Error(err))
		}
	}

	if s.speech != nil && s.namer != nil {
		artifact := s.namer.Next()
		if err := s.speech.GenerateAudio(ctx, translated, tgt, artifact); err != nil {
			out.AudioErr = apperr.NewService("Speech synthesis", err)
			s.log.Warn("speech synthesis failed",
				zap.String("provider", s.speech.Name()),
				zap.String("lang", string(tgt)),
				zap.Error(err))
		} else {
			next.AudioPath = artifact
			out.AudioPath = artifact
			if s.keeper != nil {
				s.keeper.Keep(artifact)
			}
		}
	}

	s.log.Info("translated",
		zap.String("src", string(src)),
		zap.String("tgt", string(tgt)),
		zap.Int("chars", len([]rune(text))),
		zap.String("audio", out.AudioPath))

	return next, out, nil
}

// Play plays the current artifact. done is called when playback ends.
func (s *Session) Play(st State, done func(error)) error {
	if st.AudioPath == "" {
		return apperr.Validationf("No audio available. Translate something first.")
	}
	if err := s.player.Play(st.AudioPath, done); err != nil {
		return apperr.NewIO("Playing audio", err)
	}
	return nil
}

// StopPlayback stops any running playback
func (s *Session) StopPlayback() {
	s.player.Stop()
}

// SaveAudio copies the current artifact to dst
func (s *Session) SaveAudio(st State, dst string) error {
	if st.AudioPath == "" {
		return apperr.Validationf("No audio available. Translate something first.")
	}
	if _, err := os.Stat(st.AudioPath); err != nil {
		return apperr.NewIO("Saving audio", err)
	}
	if err := audio.CopyFile(st.AudioPath, dst); err != nil {
		s.log.Warn("failed to save audio", zap.String("dst", dst), zap.Error(err))
		return apperr.NewIO("Saving audio", err)
	}
	return nil
}
