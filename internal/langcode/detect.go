package langcode

import (
	"github.com/abadojack/whatlanggo"

	"codeberg.org/snonux/translingo/internal/apperr"
)

// detectAliases maps ISO 639-1 codes reported by the detector onto the
// regional codes the API expects
var detectAliases = map[string]APICode{
	"zh": "zh-cn",
}

// Detect guesses the API language code of text. Unreliable guesses and
// languages the desktop app does not offer are validation errors.
func Detect(text string) (APICode, error) {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "", apperr.Validationf("Could not detect the source language, please select it.")
	}

	iso := info.Lang.Iso6391()
	code := APICode(iso)
	if alias, ok := detectAliases[iso]; ok {
		code = alias
	}

	if iso == "" || !APILanguages.Contains(code) {
		return "", apperr.Validationf("Detected language %s is not supported.", info.Lang.String())
	}
	return code, nil
}
