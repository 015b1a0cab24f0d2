package llm

// ClinicalAnswerSchema is the structured output requested when drafting
// a reference answer for a clinical question.
var ClinicalAnswerSchema = &Schema{
	Name:        "clinical-answer",
	Description: "A concise answer to a clinical question with a short rationale",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The answer as it would be shown to a clinician",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "One or two sentences on the guideline or evidence behind the answer",
			},
		},
		"required":             []string{"answer", "rationale"},
		"additionalProperties": false,
	},
}

// ClinicalAnswer is the decoded form of ClinicalAnswerSchema.
type ClinicalAnswer struct {
	Answer    string `json:"answer"`
	Rationale string `json:"rationale"`
}
