package answergen

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/medval/internal/content"
	"github.com/abhisek/medval/internal/llm"
	"github.com/abhisek/medval/internal/questionnaire"
)

func answerJSON(answer string) json.RawMessage {
	b, _ := json.Marshal(llm.ClinicalAnswer{Answer: answer, Rationale: "WHO 2021 consolidated guidelines."})
	return b
}

// echoProvider answers every question with "A: <question>".
func echoProvider() *llm.MockProvider {
	m := llm.NewMockProvider()
	m.Fallback = func(req llm.Request) llm.MockResponse {
		q := strings.TrimPrefix(strings.SplitN(req.Messages[0].Content, "\n", 2)[0], "Question: ")
		return llm.MockResponse{Content: answerJSON("A: " + q)}
	}
	return m
}

func TestAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: answerJSON("TDF + 3TC + DTG.")})
	gen := New(mock, DefaultConfig())

	got, err := gen.Answer(context.Background(), questionnaire.Question{
		Text:      "What is the preferred first-line regimen?",
		Reference: "TDF + 3TC + DTG",
		Options:   []string{"TDF + 3TC + DTG", "AZT + 3TC + NVP"},
	})
	require.NoError(t, err)
	assert.Equal(t, "TDF + 3TC + DTG.", got)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, llm.ClinicalAnswerSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Options: TDF + 3TC + DTG; AZT + 3TC + NVP")
	assert.NotContains(t, req.Messages[0].Content, "true_answer")
	assert.Equal(t, 1, strings.Count(req.Messages[0].Content, "TDF + 3TC + DTG"), "reference answer leaked into prompt")
}

func TestAnswer_ValidatorRejects(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: answerJSON("What is the preferred regimen")})
	gen := New(mock, DefaultConfig())

	_, err := gen.Answer(context.Background(), questionnaire.Question{Text: "What is the preferred regimen?"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "echo", verr.Validator)
}

func TestAnswer_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	gen := New(mock, DefaultConfig())

	_, err := gen.Answer(context.Background(), questionnaire.Question{Text: "Q?"})
	assert.Error(t, err)
}

func TestLengthValidator(t *testing.T) {
	v := &LengthValidator{Max: 5}
	q := questionnaire.Question{Text: "Q?"}
	tests := []struct {
		answer string
		ok     bool
	}{
		{"  ", false},
		{"short", true},
		{"too long", false},
	}
	for _, tt := range tests {
		if got := v.Validate(q, tt.answer) == nil; got != tt.ok {
			t.Errorf("Validate(%q) ok = %v, want %v", tt.answer, got, tt.ok)
		}
	}
}

func TestFill_SkipsExistingAnswers(t *testing.T) {
	qs := []questionnaire.Question{
		{Text: "Q1", AIAnswer: "kept"},
		{Text: "Q2"},
		{Text: "Q3"},
	}
	mock := echoProvider()
	out, res, err := Fill(context.Background(), New(mock, DefaultConfig()), qs, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Filled)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, res.Failed)
	assert.Equal(t, "kept", out[0].AIAnswer)
	assert.Equal(t, "A: Q2", out[1].AIAnswer)
	assert.Equal(t, "A: Q3", out[2].AIAnswer)
	assert.Empty(t, qs[1].AIAnswer, "input slice modified")
	assert.Equal(t, 2, mock.CallCount())
}

func TestFill_Overwrite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overwrite = true
	out, res, err := Fill(context.Background(), New(echoProvider(), cfg), []questionnaire.Question{{Text: "Q1", AIAnswer: "old"}}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Filled)
	assert.Equal(t, "A: Q1", out[0].AIAnswer)
}

type failingGenerator struct{ fail string }

func (f failingGenerator) Answer(_ context.Context, q questionnaire.Question) (string, error) {
	if q.Text == f.fail {
		return "", errors.New("boom")
	}
	return "ok", nil
}

func TestFill_RecordsFailures(t *testing.T) {
	qs := []questionnaire.Question{{Text: "Q1"}, {Text: "Q2"}}
	out, res, err := Fill(context.Background(), failingGenerator{fail: "Q2"}, qs, Config{Concurrency: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Filled)
	require.Contains(t, res.Failed, 1)
	assert.Equal(t, "ok", out[0].AIAnswer)
	assert.Empty(t, out[1].AIAnswer)
}

func TestFill_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := generatorFunc(func(ctx context.Context, _ questionnaire.Question) (string, error) {
		return "", ctx.Err()
	})
	_, _, err := Fill(ctx, gen, []questionnaire.Question{{Text: "Q1"}}, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

type generatorFunc func(context.Context, questionnaire.Question) (string, error)

func (f generatorFunc) Answer(ctx context.Context, q questionnaire.Question) (string, error) {
	return f(ctx, q)
}

func TestFillFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, content.FileName(questionnaire.SectionStep1Rating)+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(`- question: When should viral load be checked?
  true_answer: At 6 months.
- question: Which regimen is preferred?
  true_answer: TDF + 3TC + DTG
  ai_answer: DTG-based.
`), 0o644))

	res, err := FillFile(context.Background(), New(echoProvider(), DefaultConfig()), path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Filled)
	assert.Equal(t, 1, res.Skipped)

	qs, err := content.NewDirSource(dir).Questions(context.Background(), questionnaire.SectionStep1Rating)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "A: When should viral load be checked?", qs[0].AIAnswer)
	assert.Equal(t, "At 6 months.", qs[0].Reference)
	assert.Equal(t, "DTG-based.", qs[1].AIAnswer)
}

func TestFillFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, content.FileName(questionnaire.SectionStep2QA)+".json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"question": "Q1", "true_answer": "R1"}]`), 0o644))

	res, err := FillFile(context.Background(), New(echoProvider(), DefaultConfig()), path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Filled)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	qs, err := content.ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, []questionnaire.Question{{Text: "Q1", Reference: "R1", AIAnswer: "A: Q1"}}, qs)
}

func TestFillFile_UntouchedWhenNothingFilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.json")
	orig := []byte(`[{"question": "Q1", "ai_answer": "done"}]`)
	require.NoError(t, os.WriteFile(path, orig, 0o644))

	mock := echoProvider()
	res, err := FillFile(context.Background(), New(mock, DefaultConfig()), path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Filled)
	assert.Equal(t, 0, mock.CallCount())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, orig, data)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"MedGPT_validation_step_1.yml", "MedGPT_validation_step_2.json", "general_info.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644))
	}
	assert.Equal(t, []string{
		filepath.Join(dir, "MedGPT_validation_step_1.yml"),
		filepath.Join(dir, "MedGPT_validation_step_2.json"),
	}, Files(dir))
}
