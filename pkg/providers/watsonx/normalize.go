package watsonx

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// The model service answers in several shapes depending on endpoint and API
// version. Replies and error codes are probed by path rather than decoded
// into structs.
var (
	chatReplyPaths = []string{
		"output_text",
		"results.0.generated_text",
		"output.0.content.0.text",
		"choices.0.message.content",
	}

	errorCodePaths = []string{
		"error.code",
		"error.errors.0.code",
		"errors.0.code",
		"code",
	}
)

// maxRawResponse bounds how much of an unparsable body is kept for errors.
const maxRawResponse = 512

// ChatReply extracts the reply text from a chat endpoint body. It returns ""
// when no known path holds non-blank text.
func ChatReply(body []byte) string {
	for _, path := range chatReplyPaths {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
			return r.Str
		}
	}
	return ""
}

// GenerationReply extracts the reply text from a generation endpoint body and
// strips the prompt when the model echoed it. It returns "" when the body
// holds no non-blank generated text.
func GenerationReply(body []byte, p Prompt) string {
	r := gjson.GetBytes(body, "results.0.generated_text")
	if r.Type != gjson.String {
		return ""
	}
	raw := strings.TrimSpace(r.Str)
	if raw == "" {
		return ""
	}

	var cleaned string
	if full := p.Text(); strings.HasPrefix(r.Str, full) {
		cleaned = strings.TrimPrefix(r.Str, full)
	} else {
		cleaned = strings.Replace(r.Str, p.turnMarker(), "", 1)
	}
	if cleaned = strings.TrimSpace(cleaned); cleaned != "" {
		return cleaned
	}
	return raw
}

// ErrorCode returns the first error code found in body, or "".
func ErrorCode(body []byte) string {
	for _, path := range errorCodePaths {
		if r := gjson.GetBytes(body, path); r.Exists() && r.String() != "" {
			return r.String()
		}
	}
	return ""
}

// errorDetails returns the body's "error" member if present, otherwise the
// whole body. The boolean reports whether an "error" member was found.
func errorDetails(body []byte) (json.RawMessage, bool) {
	if r := gjson.GetBytes(body, "error"); r.Exists() && r.Type != gjson.Null {
		return json.RawMessage(r.Raw), true
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return json.RawMessage("{}"), false
	}
	return json.RawMessage(body), false
}

// errorMessage returns a human-readable message from an error body.
func errorMessage(body []byte) string {
	for _, path := range []string{"error.message", "error.errors.0.message", "errors.0.message", "message"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

// messageDetails synthesizes a details object for failures that produced no
// usable body.
func messageDetails(msg string) json.RawMessage {
	data, err := json.Marshal(map[string]string{"message": msg})
	if err != nil {
		return json.RawMessage(`{"message":"unknown error"}`)
	}
	return data
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
