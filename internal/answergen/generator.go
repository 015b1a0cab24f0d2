// Package answergen drafts the AI answers that clinicians evaluate, filling
// missing ai_answer fields in question files.
package answergen

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/abhisek/medval/internal/llm"
	"github.com/abhisek/medval/internal/questionnaire"
)

// Generator drafts an answer for one question.
type Generator interface {
	Answer(ctx context.Context, q questionnaire.Question) (string, error)
}

// LLMGenerator implements Generator with an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates an LLMGenerator.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

func (g *LLMGenerator) Answer(ctx context.Context, q questionnaire.Question) (string, error) {
	ctx = llm.WithSubject(llm.WithPurpose(ctx, "ai-answer"), q.Text)

	req := llm.UserPrompt(systemPrompt, buildUserMessage(q))
	req.Schema = llm.ClinicalAnswerSchema
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", eris.Wrap(err, "answergen: generate")
	}

	var out llm.ClinicalAnswer
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", eris.Wrap(err, "answergen: parse response")
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(q, out.Answer); verr != nil {
			return "", verr
		}
	}
	return out.Answer, nil
}
