package webform

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"codeberg.org/snonux/translingo/internal/apperr"
	"codeberg.org/snonux/translingo/internal/cache"
	"codeberg.org/snonux/translingo/internal/langcode"
	"codeberg.org/snonux/translingo/internal/mt"
)

// DefaultCallTimeout bounds one model call shared by concurrent requests
const DefaultCallTimeout = 60 * time.Second

// Options configure a Handler. Zero values select the defaults.
type Options struct {
	Cache       cache.TranslationCache
	Logger      *zap.Logger
	MaxTokens   int
	CallTimeout time.Duration
}

// Handler translates form submissions with an injected model
type Handler struct {
	model     mt.Model
	langs     *langcode.Table[langcode.ModelCode]
	cache     cache.TranslationCache
	log       *zap.Logger
	maxTokens int
	timeout   time.Duration

	inflight singleflight.Group
}

// NewHandler creates a handler around an already loaded model
func NewHandler(model mt.Model, opts Options) *Handler {
	h := &Handler{
		model:     model,
		langs:     langcode.ModelLanguages,
		cache:     opts.Cache,
		log:       opts.Logger,
		maxTokens: opts.MaxTokens,
		timeout:   opts.CallTimeout,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.maxTokens <= 0 {
		h.maxTokens = mt.DefaultMaxTokens
	}
	if h.timeout <= 0 {
		h.timeout = DefaultCallTimeout
	}
	return h
}

// Translate translates text between two languages given by display name,
// model tag or API code. Identical languages are rejected without calling the
// model, as is input over the token budget.
func (h *Handler) Translate(ctx context.Context, text, src, tgt string) (string, error) {
	text = norm.NFC.String(strings.TrimSpace(text))
	if text == "" {
		return "", apperr.Validationf("Please enter some text to translate.")
	}

	srcCode, ok := h.resolve(src)
	if !ok {
		return "", apperr.Validationf("Unsupported source language %q.", src)
	}
	tgtCode, ok := h.resolve(tgt)
	if !ok {
		return "", apperr.Validationf("Unsupported target language %q.", tgt)
	}
	if srcCode == tgtCode {
		return "", apperr.Validationf("Source and target languages are the same. Please choose different languages.")
	}

	if err := mt.CheckBudget(text, h.maxTokens); err != nil {
		return "", err
	}

	key := cache.Key(text, string(srcCode), string(tgtCode))
	if h.cache != nil {
		if out, ok := h.cache.Get(ctx, key); ok {
			return out, nil
		}
	}

	// The model call is shared by every request for the same key, so it
	// must not end when the request that started it goes away.
	ch := h.inflight.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer cancel()

		out, err := h.model.Translate(callCtx, mt.Request{Text: text, Source: srcCode, Target: tgtCode})
		if err == nil && strings.TrimSpace(out) == "" {
			err = errEmptyResult
		}
		if err != nil {
			return "", err
		}
		if h.cache != nil {
			if err := h.cache.Set(callCtx, key, out); err != nil {
				h.log.Warn("failed to cache translation", zap.Error(err))
			}
		}
		return out, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if res.Err != nil {
		h.log.Error("model translation failed",
			zap.String("model", h.model.Name()),
			zap.String("src", string(srcCode)),
			zap.String("tgt", string(tgtCode)),
			zap.Error(res.Err))
		return "", apperr.NewService("Translation", res.Err)
	}
	return res.Val.(string), nil
}

// resolve accepts a display name, a model tag or the API code of a
// language in the table
func (h *Handler) resolve(s string) (langcode.ModelCode, bool) {
	s = strings.TrimSpace(s)
	if code, ok := h.langs.Code(s); ok {
		return code, true
	}
	if code := langcode.ModelCode(s); h.langs.Contains(code) {
		return code, true
	}
	if code, ok := langcode.APIToModel(langcode.APICode(s)); ok && h.langs.Contains(code) {
		return code, true
	}
	return "", false
}
