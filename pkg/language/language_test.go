package language

import (
	"strings"
	"testing"
)

func TestDirective(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"hi", HindiDirective},
		{"HINDI", HindiDirective},
		{"  Hi ", HindiDirective},
		{"hinglish", HinglishDirective},
		{"HingLish", HinglishDirective},
		{"en", EnglishDirective},
		{"", EnglishDirective},
		{"fr", EnglishDirective},
		{"hindi-latin", EnglishDirective},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Directive(tt.code); got != tt.want {
				t.Errorf("Directive(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestDirective_ScriptRequirements(t *testing.T) {
	for _, code := range []string{"hi", "hindi"} {
		if !strings.Contains(Directive(code), "Devanagari") {
			t.Errorf("%q directive must request Devanagari script", code)
		}
	}

	hinglish := Directive("hinglish")
	if !strings.Contains(hinglish, "Roman") || !strings.Contains(hinglish, "Avoid Devanagari") {
		t.Errorf("hinglish directive must request romanized text and exclude Devanagari: %q", hinglish)
	}
}

func TestDirective_Idempotent(t *testing.T) {
	for _, code := range []string{"hi", "hinglish", "en", "xx", ""} {
		first := Directive(code)
		for i := 0; i < 3; i++ {
			if got := Directive(code); got != first {
				t.Fatalf("Directive(%q) changed between calls: %q != %q", code, got, first)
			}
		}
	}
}

func TestResolve(t *testing.T) {
	tests := map[string]string{
		"en":       "en",
		"HI":       "hi",
		"Hindi":    "hindi",
		"hinglish": "hinglish",
		"":         "en",
		"de":       "en",
	}
	for in, want := range tests {
		if got := Resolve(in); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}
