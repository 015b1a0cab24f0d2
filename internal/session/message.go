package session

import (
	"errors"

	"github.com/abhisek/medval/internal/questionnaire"
)

// Message turns a refused event into text for the respondent.
func Message(err error) string {
	var verr *questionnaire.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Reason
	case errors.Is(err, questionnaire.ErrNoContent):
		return "No questions could be loaded for this section. Press Ctrl+C to quit."
	case errors.Is(err, questionnaire.ErrSessionDone):
		return "The questionnaire is already complete."
	}
	return err.Error()
}
