package audio

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/translingo/internal/langcode"
)

// ValidateRequest checks the text and language of a synthesis request
func ValidateRequest(text string, lang langcode.APICode) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if err := lang.Validate(); err != nil {
		return err
	}
	return nil
}
