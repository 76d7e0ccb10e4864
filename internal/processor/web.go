package processor

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"codeberg.org/snonux/translingo/internal/cache"
	"codeberg.org/snonux/translingo/internal/cli"
	"codeberg.org/snonux/translingo/internal/mt"
	"codeberg.org/snonux/translingo/internal/webform"
)

// Web is a fully wired web form
type Web struct {
	Handler *webform.Handler
	Router  http.Handler

	closers []io.Closer
}

// NewWeb loads the model once and builds the web form around it
func NewWeb(ctx context.Context, cfg *cli.Config, log *zap.Logger) (*Web, error) {
	if log == nil {
		log = zap.NewNop()
	}

	model, err := mt.Load(ctx, cfg.MT)
	if err != nil {
		return nil, fmt.Errorf("failed to load translation model: %w", err)
	}
	log.Info("translation model loaded", zap.String("model", model.Name()), zap.String("provider", cfg.MT.Provider))

	return newWeb(ctx, cfg, model, log)
}

func newWeb(ctx context.Context, cfg *cli.Config, model mt.Model, log *zap.Logger) (*Web, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Web{}

	var c cache.TranslationCache = cache.NewMemoryCache()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, TTL: cfg.CacheTTL})
		if err != nil {
			return nil, err
		}
		c = rc
		w.closers = append(w.closers, rc)
		log.Info("using redis translation cache")
	}

	w.Handler = webform.NewHandler(model, webform.Options{
		Cache:     c,
		Logger:    log,
		MaxTokens: cfg.MT.MaxTokens,
	})
	w.Router = w.Handler.Routes(webform.RouterConfig{
		RateLimit:      cfg.RateLimit,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	return w, nil
}

// Close releases the cache connection
func (w *Web) Close() error {
	return closeAll(w.closers)
}
