package logging

import (
	"fmt"
	"regexp"
	"strings"
)

// Redactor masks credentials in log output: bearer tokens, API keys in
// form bodies or JSON, and anything matching configured patterns.
type Redactor struct {
	patterns []*redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternAPIKeyParam = "apikey_param"
	PatternAccessToken = "access_token"
)

var defaultPatterns = []*redactPattern{
	{
		name:        PatternBearerToken,
		regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
		replacement: "Bearer ***",
	},
	{
		// apikey=... in a form-encoded token exchange body
		name:        PatternAPIKeyParam,
		regex:       regexp.MustCompile(`(?i)(api[-_]?key=)[^&\s"]+`),
		replacement: "${1}***",
	},
	{
		name:        PatternAccessToken,
		regex:       regexp.MustCompile(`("(?:access|refresh)_token"\s*:\s*")[^"]*(")`),
		replacement: "${1}***${2}",
	},
}

// NewRedactor creates a Redactor with the built-in patterns plus the given
// extra expressions, each of whose matches is replaced with "***".
func NewRedactor(extra []string) (*Redactor, error) {
	r := &Redactor{patterns: append([]*redactPattern(nil), defaultPatterns...)}
	for _, expr := range extra {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", expr, err)
		}
		r.patterns = append(r.patterns, &redactPattern{name: expr, regex: re, replacement: "***"})
	}
	return r, nil
}

// RedactString masks every pattern match in value.
func (r *Redactor) RedactString(value string) string {
	if r == nil || value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

var sensitiveKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"authorization": true,
	"token":         true,
	"access_token":  true,
	"refresh_token": true,
	"bearer":        true,
	"password":      true,
	"secret":        true,
}

// IsSensitiveKey reports whether an attribute key names a credential.
// Keys such as max_new_tokens are not sensitive.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	return sensitiveKeys[k] || strings.HasSuffix(k, "_token") || strings.HasSuffix(k, "_secret")
}

// RedactAPIKey keeps the first four characters of a key for identification.
func RedactAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "***"
	}
	return apiKey[:4] + "***"
}
