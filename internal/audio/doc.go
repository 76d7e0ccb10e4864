// Package audio synthesizes translated text into audio artifacts, names
// those artifacts, plays them back, and archives the ones a session has
// superseded.
package audio
