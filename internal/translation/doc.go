// Package translation provides the translation web API backends used by
// the desktop session: the free Google Translate endpoint and OpenAI chat
// completions, optionally guarded by a circuit breaker.
package translation
