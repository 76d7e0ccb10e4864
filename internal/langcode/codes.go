package langcode

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ModelCode is a tag from the MT model's vocabulary, e.g. "eng_Latn"
type ModelCode string

// APICode is a code from the translation and TTS API vocabulary, e.g. "en"
// or "zh-cn"
type APICode string

// Auto asks the desktop session to detect the source language
const Auto APICode = "auto"

// Validate checks the <iso639-3>_<script> shape of a model tag
func (c ModelCode) Validate() error {
	base, script, ok := strings.Cut(string(c), "_")
	if !ok || len(base) != 3 || len(script) != 4 {
		return fmt.Errorf("invalid model language tag %q", c)
	}
	if _, err := language.ParseBase(base); err != nil {
		return fmt.Errorf("invalid model language tag %q: %w", c, err)
	}
	if _, err := language.ParseScript(script); err != nil {
		return fmt.Errorf("invalid model language tag %q: %w", c, err)
	}
	return nil
}

// Validate checks that the code is a well-formed BCP 47 tag. Auto is not
// a valid concrete code.
func (c APICode) Validate() error {
	if c == Auto {
		return fmt.Errorf("%q is not a concrete language code", c)
	}
	if strings.Contains(string(c), "_") {
		return fmt.Errorf("invalid API language code %q", c)
	}
	if _, err := language.Parse(string(c)); err != nil {
		return fmt.Errorf("invalid API language code %q: %w", c, err)
	}
	return nil
}

// IsAuto reports whether the code requests source detection
func (c APICode) IsAuto() bool {
	return c == Auto
}

// ModelLanguages are the languages offered by the web form
var ModelLanguages = newTable(
	Entry[ModelCode]{"English", "eng_Latn"},
	Entry[ModelCode]{"Hindi", "hin_Deva"},
	Entry[ModelCode]{"Malayalam", "mal_Mlym"},
	Entry[ModelCode]{"Tamil", "tam_Taml"},
	Entry[ModelCode]{"Telugu", "tel_Telu"},
	Entry[ModelCode]{"Bengali", "ben_Beng"},
	Entry[ModelCode]{"Gujarati", "guj_Gujr"},
	Entry[ModelCode]{"Kannada", "kan_Knda"},
	Entry[ModelCode]{"Punjabi", "pan_Guru"},
	Entry[ModelCode]{"Marathi", "mar_Deva"},
	Entry[ModelCode]{"Odia", "ory_Orya"},
	Entry[ModelCode]{"Assamese", "asm_Beng"},
	Entry[ModelCode]{"Urdu", "urd_Arab"},
)

// APILanguages are the languages offered by the desktop app
var APILanguages = newTable(
	Entry[APICode]{"English", "en"},
	Entry[APICode]{"Hindi", "hi"},
	Entry[APICode]{"Tamil", "ta"},
	Entry[APICode]{"Telugu", "te"},
	Entry[APICode]{"Malayalam", "ml"},
	Entry[APICode]{"Bengali", "bn"},
	Entry[APICode]{"Gujarati", "gu"},
	Entry[APICode]{"Kannada", "kn"},
	Entry[APICode]{"Punjabi", "pa"},
	Entry[APICode]{"Marathi", "mr"},
	Entry[APICode]{"Odia", "or"},
	Entry[APICode]{"Assamese", "as"},
	Entry[APICode]{"Urdu", "ur"},
	Entry[APICode]{"Nepali", "ne"},
	Entry[APICode]{"Sindhi", "sd"},
	Entry[APICode]{"Konkani", "kok"},
	Entry[APICode]{"Kashmiri", "ks"},
	Entry[APICode]{"Sanskrit", "sa"},
	Entry[APICode]{"Maithili", "mai"},
	Entry[APICode]{"Santali", "sat"},
	Entry[APICode]{"Sinhala", "si"},
	Entry[APICode]{"Burmese", "my"},
	Entry[APICode]{"Arabic", "ar"},
	Entry[APICode]{"French", "fr"},
	Entry[APICode]{"German", "de"},
	Entry[APICode]{"Spanish", "es"},
	Entry[APICode]{"Portuguese", "pt"},
	Entry[APICode]{"Italian", "it"},
	Entry[APICode]{"Japanese", "ja"},
	Entry[APICode]{"Chinese Simplified", "zh-cn"},
	Entry[APICode]{"Chinese Traditional", "zh-tw"},
	Entry[APICode]{"Korean", "ko"},
	Entry[APICode]{"Russian", "ru"},
	Entry[APICode]{"Turkish", "tr"},
	Entry[APICode]{"Polish", "pl"},
	Entry[APICode]{"Dutch", "nl"},
	Entry[APICode]{"Swedish", "sv"},
	Entry[APICode]{"Norwegian", "no"},
	Entry[APICode]{"Finnish", "fi"},
	Entry[APICode]{"Danish", "da"},
	Entry[APICode]{"Czech", "cs"},
	Entry[APICode]{"Romanian", "ro"},
	Entry[APICode]{"Hungarian", "hu"},
	Entry[APICode]{"Hebrew", "he"},
	Entry[APICode]{"Greek", "el"},
	Entry[APICode]{"Ukrainian", "uk"},
	Entry[APICode]{"Thai", "th"},
	Entry[APICode]{"Vietnamese", "vi"},
	Entry[APICode]{"Malay", "ms"},
	Entry[APICode]{"Swahili", "sw"},
	Entry[APICode]{"Tagalog", "tl"},
	Entry[APICode]{"Indonesian", "id"},
)

// modelToAPI is the explicit bridge between the two vocabularies. Only
// languages offered by both front ends appear here.
var modelToAPI = map[ModelCode]APICode{
	"eng_Latn": "en",
	"hin_Deva": "hi",
	"mal_Mlym": "ml",
	"tam_Taml": "ta",
	"tel_Telu": "te",
	"ben_Beng": "bn",
	"guj_Gujr": "gu",
	"kan_Knda": "kn",
	"pan_Guru": "pa",
	"mar_Deva": "mr",
	"ory_Orya": "or",
	"asm_Beng": "as",
	"urd_Arab": "ur",
}

var apiToModel = func() map[APICode]ModelCode {
	m := make(map[APICode]ModelCode, len(modelToAPI))
	for model, api := range modelToAPI {
		m[api] = model
	}
	return m
}()

// ModelToAPI converts a model tag to the API vocabulary
func ModelToAPI(c ModelCode) (APICode, bool) {
	api, ok := modelToAPI[c]
	return api, ok
}

// APIToModel converts an API code to the model vocabulary
func APIToModel(c APICode) (ModelCode, bool) {
	model, ok := apiToModel[c]
	return model, ok
}
