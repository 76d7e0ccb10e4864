package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"codeberg.org/snonux/translingo/internal/audio"
	"codeberg.org/snonux/translingo/internal/cli"
	"codeberg.org/snonux/translingo/internal/history"
	"codeberg.org/snonux/translingo/internal/session"
	"codeberg.org/snonux/translingo/internal/translation"
)

// Desktop is a fully wired desktop session
type Desktop struct {
	Session *session.Session

	sweeper *audio.Sweeper
	closers []io.Closer
}

// NewDesktop builds the desktop session described by cfg
func NewDesktop(ctx context.Context, cfg *cli.Config, log *zap.Logger) (*Desktop, error) {
	if log == nil {
		log = zap.NewNop()
	}

	translator, err := NewTranslator(cfg)
	if err != nil {
		return nil, err
	}

	speech, err := audio.NewProvider(&cfg.TTS)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio provider: %w", err)
	}
	if err := speech.IsAvailable(); err != nil {
		log.Warn("audio provider not available", zap.String("provider", speech.Name()), zap.Error(err))
	}

	if err := os.MkdirAll(cfg.AudioDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}

	sink, closers, err := NewSink(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d := &Desktop{closers: closers}

	deps := session.Deps{
		Translator: translator,
		Speech:     speech,
		Namer:      audio.NewNamer(cfg.AudioDir),
		Sink:       sink,
		Player:     audio.NewPlayer(),
		Logger:     log,
	}

	if cfg.CleanupSchedule != "" {
		sweeper, err := audio.NewSweeper(cfg.AudioDir, cfg.CleanupSchedule, cfg.Retention, log)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		sweeper.Start()
		d.sweeper = sweeper
		deps.Keeper = sweeper
	}

	d.Session = session.New(deps)

	log.Info("desktop session ready",
		zap.String("translator", translator.Name()),
		zap.String("speech", speech.Name()),
		zap.String("audio_dir", cfg.AudioDir),
		zap.String("log", cfg.CSVPath))
	return d, nil
}

// Close stops the sweeper and closes database connections
func (d *Desktop) Close() error {
	if d.sweeper != nil {
		d.sweeper.Stop()
	}
	if d.Session != nil {
		d.Session.StopPlayback()
	}
	return closeAll(d.closers)
}

// NewTranslator creates the configured translation backend behind a
// circuit breaker
func NewTranslator(cfg *cli.Config) (translation.Translator, error) {
	var t translation.Translator
	switch cfg.TranslationProvider {
	case "google", "":
		t = translation.NewGoogleTranslator()
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required for the openai translation provider")
		}
		t = translation.NewOpenAITranslator(cfg.OpenAIKey, cfg.TranslationModel)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.TranslationProvider)
	}

	return translation.NewBreaker(t, translation.BreakerConfig{
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerTimeout,
	}), nil
}

// NewSink creates the CSV log plus any configured SQL mirrors. The
// returned closers release the database connections.
func NewSink(ctx context.Context, cfg *cli.Config) (history.Sink, []io.Closer, error) {
	csvPath := cfg.CSVPath
	if csvPath == "" {
		csvPath = history.DefaultCSVFile
	}
	if dir := filepath.Dir(csvPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	sinks := history.MultiSink{history.NewCSVLog(csvPath)}
	var closers []io.Closer

	mirrors := []struct{ driver, dsn string }{
		{history.DriverSQLite, cfg.SQLitePath},
		{history.DriverPostgres, cfg.PostgresDSN},
	}
	for _, m := range mirrors {
		if m.dsn == "" {
			continue
		}
		l, err := history.OpenSQLLog(ctx, m.driver, m.dsn)
		if err != nil {
			_ = closeAll(closers)
			return nil, nil, err
		}
		sinks = append(sinks, l)
		closers = append(closers, l)
	}

	if len(sinks) == 1 {
		return sinks[0], closers, nil
	}
	return sinks, closers, nil
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
