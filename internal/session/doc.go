// Package session implements the desktop translator's interaction flow.
//
// A Session owns no UI state. Every action takes the current State and
// returns the next one, so the flow can be driven and tested without a
// window. Per translation the session issues, in order, the translation
// request, the history append and the speech synthesis request.
package session
