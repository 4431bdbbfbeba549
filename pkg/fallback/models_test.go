package fallback

import "testing"

func TestIsInstructModel(t *testing.T) {
	tests := map[string]bool{
		"ibm/granite-13b-instruct-v2": true,
		"IBM/GRANITE-13B-INSTRUCT-V2": true,
		"mistralai/mixtral-instruct":  true,
		"ibm/granite-13b-chat-v2":     false,
		"":                            false,
	}
	for id, want := range tests {
		if got := IsInstructModel(id); got != want {
			t.Errorf("IsInstructModel(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestInstructVariant(t *testing.T) {
	tests := []struct {
		id     string
		want   string
		wantOK bool
	}{
		{"ibm/granite-13b-chat-v2", "ibm/granite-13b-instruct-v2", true},
		{"ibm/granite-20b-chat-v1", "ibm/granite-20b-instruct-v1", true},
		{"IBM/Granite-13B-Chat-V2", "IBM/Granite-13B-instruct-V2", true},
		{"ibm/granite-3b-chat-v1-chat-x", "ibm/granite-3b-instruct-v1-chat-x", true},
		{"ibm/granite-13b-chat", "", false},
		{"ibm/granite-1000b-chat-v2", "", false},
		{"meta-llama/llama-2-70b-chat-v1", "", false},
		{"ibm/granite-13b-instruct-v2", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := InstructVariant(tt.id)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("InstructVariant(%q) = %q, %v; want %q, %v", tt.id, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsSwappableChatModel(t *testing.T) {
	if !IsSwappableChatModel("ibm/granite-13b-chat-v2") {
		t.Error("expected granite chat model to be swappable")
	}
	if IsSwappableChatModel("ibm/granite-chat") {
		t.Error("model without a size must not be swappable")
	}
}
