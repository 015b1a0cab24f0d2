package answergen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/medval/internal/questionnaire"
)

// Validator checks a drafted answer before it is written back.
type Validator interface {
	Name() string
	Validate(q questionnaire.Question, answer string) *ValidationError
}

// ValidationError describes why an answer was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// LengthValidator rejects empty answers and answers longer than Max runes.
type LengthValidator struct {
	Max int
}

func (v *LengthValidator) Name() string { return "length" }

func (v *LengthValidator) Validate(_ questionnaire.Question, answer string) *ValidationError {
	n := utf8.RuneCountInString(strings.TrimSpace(answer))
	if n == 0 {
		return &ValidationError{Validator: v.Name(), Message: "answer is empty"}
	}
	if v.Max > 0 && n > v.Max {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("answer is %d characters, limit %d", n, v.Max)}
	}
	return nil
}

// EchoValidator rejects answers that merely repeat the question.
type EchoValidator struct{}

func (v *EchoValidator) Name() string { return "echo" }

func (v *EchoValidator) Validate(q questionnaire.Question, answer string) *ValidationError {
	if normalize(answer) == normalize(q.Text) {
		return &ValidationError{Validator: v.Name(), Message: "answer repeats the question"}
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimRight(strings.Join(strings.Fields(s), " "), "?.! "))
}
