package questionnaire

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("answer does not satisfy the completion rule")
	// ErrIllegalTransition means the event has no row for the current state.
	ErrIllegalTransition = errors.New("event not allowed in current state")
	// ErrNoContent means the current section has no questions to answer.
	ErrNoContent = errors.New("no questions loaded for section")
	// ErrSessionDone means the questionnaire is finished and read-only.
	ErrSessionDone = errors.New("questionnaire already completed")
	// ErrAlreadyExported means the export record was already produced.
	ErrAlreadyExported = errors.New("answers already exported")
)

// ValidationError describes why an operation was refused. State is left
// unchanged whenever one is returned.
type ValidationError struct {
	Section Section
	Index   int
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s question %d: %s", e.Section, e.Index+1, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransitionError reports an event sent in a state that does not accept it.
type TransitionError struct {
	State State
	Event EventKind
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s not allowed in %s", e.Event, e.State)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }
