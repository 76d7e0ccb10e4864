// Package cache stores finished translations keyed by text and language
// pair, in memory or in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// TranslationCache is the interface the web form consults before calling
// the model
type TranslationCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// Key derives a cache key from the text and the language pair
func Key(text, src, tgt string) string {
	h := sha256.New()
	h.Write([]byte(src))
	h.Write([]byte{0})
	h.Write([]byte(tgt))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// MemoryCache stores translations in process memory
type MemoryCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		translations: make(map[string]string),
	}
}

// Get retrieves a translation from the cache
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	translation, ok := c.translations[key]
	return translation, ok
}

// Set adds a translation to the cache
func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.translations[key] = value
	return nil
}

// Len returns the number of cached translations
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.translations)
}

var _ TranslationCache = (*MemoryCache)(nil)
