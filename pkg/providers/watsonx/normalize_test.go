package watsonx

import (
	"encoding/json"
	"testing"
)

func TestChatReply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"output_text", `{"output_text":"Hello"}`, "Hello"},
		{"results", `{"results":[{"generated_text":"From results"}]}`, "From results"},
		{"output content", `{"output":[{"content":[{"text":"Nested"}]}]}`, "Nested"},
		{"choices", `{"choices":[{"message":{"role":"assistant","content":"Choice"}}]}`, "Choice"},
		{"first path wins", `{"output_text":"A","results":[{"generated_text":"B"}]}`, "A"},
		{"blank skipped", `{"output_text":"  ","results":[{"generated_text":"B"}]}`, "B"},
		{"non-string ignored", `{"output_text":42}`, ""},
		{"empty object", `{}`, ""},
		{"error body", `{"error":{"code":"model_not_supported"}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChatReply([]byte(tt.body)); got != tt.want {
				t.Errorf("ChatReply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerationReply(t *testing.T) {
	p := Prompt{Directive: "Please reply in English.", Message: "Hi"}

	tests := []struct {
		name      string
		generated string
		want      string
	}{
		{"plain", "Hello there", "Hello there"},
		{"echoed turn", "Human: Hi\n\nAssistant: Hello!", "Hello!"},
		{"echoed full prompt", "Please reply in English.\n\nHuman: Hi\n\nAssistant: Hey", "Hey"},
		{"only first echo removed", "Human: Hi\n\nAssistant: Human: Hi\n\nAssistant: x", "Human: Hi\n\nAssistant: x"},
		{"echo only keeps raw", "Human: Hi\n\nAssistant:", "Human: Hi\n\nAssistant:"},
		{"surrounding space trimmed", "  Namaste  ", "Namaste"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]any{
				"results": []map[string]string{{"generated_text": tt.generated}},
			})
			if err != nil {
				t.Fatal(err)
			}
			if got := GenerationReply(body, p); got != tt.want {
				t.Errorf("GenerationReply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerationReply_MissingResults(t *testing.T) {
	p := Prompt{Message: "Hi"}
	for _, body := range []string{`{}`, `{"results":[]}`, `{"results":[{}]}`, `{"output_text":"chat shape"}`} {
		if got := GenerationReply([]byte(body), p); got != "" {
			t.Errorf("GenerationReply(%s) = %q, want empty", body, got)
		}
	}
}

func TestErrorCode(t *testing.T) {
	tests := map[string]string{
		`{"error":{"code":"model_not_supported"}}`:                         "model_not_supported",
		`{"error":{"errors":[{"code":"invalid_input"}]}}`:                  "invalid_input",
		`{"errors":[{"code":"authentication_token_expired"}],"trace":"x"}`: "authentication_token_expired",
		`{"code":"rate_limited"}`:                                          "rate_limited",
		`{"error":{"code":"a","errors":[{"code":"b"}]}}`:                   "a",
		`{"message":"no code"}`:                                            "",
		`{}`:                                                               "",
	}
	for body, want := range tests {
		if got := ErrorCode([]byte(body)); got != want {
			t.Errorf("ErrorCode(%s) = %q, want %q", body, got, want)
		}
	}
}

func TestErrorDetails(t *testing.T) {
	details, has := errorDetails([]byte(`{"error":{"code":"x","message":"m"},"trace":"t"}`))
	if !has {
		t.Error("expected error member to be found")
	}
	if string(details) != `{"code":"x","message":"m"}` {
		t.Errorf("details = %s", details)
	}

	body := `{"errors":[{"code":"y"}],"status_code":400}`
	details, has = errorDetails([]byte(body))
	if has {
		t.Error("expected no error member")
	}
	if string(details) != body {
		t.Errorf("details = %s, want whole body", details)
	}

	details, has = errorDetails([]byte(`{"error":null}`))
	if has {
		t.Error("null error member must not count")
	}
	if string(details) != `{"error":null}` {
		t.Errorf("details = %s", details)
	}
}

func TestPromptText(t *testing.T) {
	p := Prompt{Directive: "Please reply in Hindi (Devanagari script) only.", Message: "Namaste"}
	want := "Please reply in Hindi (Devanagari script) only.\n\nHuman: Namaste\n\nAssistant:"
	if got := p.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}
