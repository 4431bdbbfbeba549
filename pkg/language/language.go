// Package language maps a requested reply language to the instruction
// that is placed in front of every prompt.
package language

import "strings"

// Supported language codes.
const (
	English  = "en"
	Hindi    = "hi"
	HindiAlt = "hindi"
	Hinglish = "hinglish"
)

// Instructions sent to the model.
const (
	EnglishDirective  = "Please reply in English."
	HindiDirective    = "Please reply in Hindi (Devanagari script) only."
	HinglishDirective = "Please reply in Hinglish: Hindi written using Roman (English) letters, casual and easy to read. Avoid Devanagari."
)

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Directive returns the instruction for a language code. Matching ignores
// case and surrounding whitespace; any unrecognized or empty code gets the
// English instruction.
func Directive(code string) string {
	switch normalize(code) {
	case Hindi, HindiAlt:
		return HindiDirective
	case Hinglish:
		return HinglishDirective
	default:
		return EnglishDirective
	}
}

// Resolve returns the code echoed back to clients: the normalized code when
// it is one of the supported codes, otherwise "en".
func Resolve(code string) string {
	switch c := normalize(code); c {
	case English, Hindi, HindiAlt, Hinglish:
		return c
	default:
		return English
	}
}
