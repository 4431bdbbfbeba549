package fallback

import (
	"regexp"
	"strings"
)

var (
	instructPattern      = regexp.MustCompile(`(?i)instruct`)
	swappableChatPattern = regexp.MustCompile(`(?i)granite-\d{1,3}b-.*chat`)
	chatSegmentPattern   = regexp.MustCompile(`(?i)-chat-`)
)

// IsInstructModel reports whether id names an instruct model. Instruct
// models are only served by the generation endpoint.
func IsInstructModel(id string) bool {
	return instructPattern.MatchString(id)
}

// IsSwappableChatModel reports whether id names a Granite chat model that
// has an instruct sibling, e.g. "ibm/granite-13b-chat-v2".
func IsSwappableChatModel(id string) bool {
	return swappableChatPattern.MatchString(id)
}

// InstructVariant derives the instruct sibling of a swappable chat model by
// replacing the first "-chat-" segment with "-instruct-". It reports false
// when id is not swappable or the substitution leaves it unchanged.
func InstructVariant(id string) (string, bool) {
	if !IsSwappableChatModel(id) {
		return "", false
	}
	loc := chatSegmentPattern.FindStringIndex(id)
	if loc == nil {
		return "", false
	}
	variant := id[:loc[0]] + "-instruct-" + id[loc[1]:]
	if strings.EqualFold(variant, id) {
		return "", false
	}
	return variant, true
}
