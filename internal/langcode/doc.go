// Package langcode holds the two language-code vocabularies used by
// translingo: the MT model's ISO-639-3 + script tags (eng_Latn) and the
// translation/TTS API's two-letter or regional codes (en, zh-cn). The
// vocabularies are distinct types and only meet through an explicit
// mapping table.
package langcode
