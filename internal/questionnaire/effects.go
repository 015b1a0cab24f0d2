package questionnaire

// Effect is a side effect requested by a transition. Effects are data:
// the controller never performs I/O itself.
type Effect interface {
	effect()
}

// TransitionStarted asks the renderer to show the intermediate screen
// before section To.
type TransitionStarted struct {
	To      Section
	Message string
}

// TimerStarted reports that timing began for a question.
type TimerStarted struct {
	Section Section
	Index   int
}

// AnswerRevealed carries the AI answer to show in the comparison phase.
type AnswerRevealed struct {
	Index    int
	Question Question
}

// RatingSubmission asks for the finalized rating to be sent to the
// backend. Failure must not affect the questionnaire.
type RatingSubmission struct {
	Record RatingRecord
}

// Completed reports that the questionnaire reached Done.
type Completed struct{}

// SaveAnswers asks for the export record to be posted to the backend.
type SaveAnswers struct {
	Record ExportRecord
}

// WriteExportFile asks for the export record to be written locally.
type WriteExportFile struct {
	Record ExportRecord
}

func (TransitionStarted) effect() {}
func (TimerStarted) effect()      {}
func (AnswerRevealed) effect()    {}
func (RatingSubmission) effect()  {}
func (Completed) effect()         {}
func (SaveAnswers) effect()       {}
func (WriteExportFile) effect()   {}
