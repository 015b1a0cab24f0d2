package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelAliases(t *testing.T) {
	tests := map[string]string{
		"gemini-flash":          "gemini-2.5-flash",
		"gemini-pro":            "gemini-2.5-pro",
		"gemini-2.5-flash-lite": "gemini-2.5-flash-lite",
	}
	for in, want := range tests {
		if got := resolveModel(in, geminiModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGeminiSchema_ClinicalAnswer(t *testing.T) {
	s := geminiSchema(ClinicalAnswerSchema.Definition)

	if s.Type != genai.TypeObject {
		t.Fatalf("Type = %s, want OBJECT", s.Type)
	}
	if got := len(s.Properties); got != 2 {
		t.Fatalf("len(Properties) = %d, want 2", got)
	}
	if s.Properties["answer"].Type != genai.TypeString {
		t.Errorf("answer.Type = %s, want STRING", s.Properties["answer"].Type)
	}
	if len(s.Required) != 2 {
		t.Errorf("Required = %v, want 2 entries", s.Required)
	}
}

func TestGeminiSchema_NestedAndEnums(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verdict": map[string]any{"type": "string", "enum": []string{"agree", "disagree"}},
			"scores": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
			"weird": map[string]any{"type": "null"},
		},
	}
	s := geminiSchema(def)

	if got := s.Properties["verdict"].Enum; len(got) != 2 {
		t.Errorf("verdict.Enum = %v, want 2 values", got)
	}
	if s.Properties["scores"].Type != genai.TypeArray || s.Properties["scores"].Items.Type != genai.TypeInteger {
		t.Errorf("scores = %+v, want ARRAY of INTEGER", s.Properties["scores"])
	}
	if s.Properties["weird"].Type != genai.TypeString {
		t.Errorf("weird.Type = %s, want STRING fallback", s.Properties["weird"].Type)
	}
	if s.Required != nil {
		t.Errorf("Required = %v, want nil", s.Required)
	}
}
