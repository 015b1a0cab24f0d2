package questionnaire

import "time"

// EventKind identifies an event in the transition table.
type EventKind int

const (
	KindStart EventKind = iota
	KindAdvanceGeneralInfo
	KindSetRatingDimension
	KindSetRatingComment
	KindSubmitRating
	KindSetStep2Answer
	KindSetStep2Confidence
	KindSetRevisedAnswer
	KindSetRevisedConfidence
	KindAdvanceStep2
	KindSetClosingAnswer
	KindSetClosingFollowUp
	KindAdvanceClosing
	KindCompleteTransition
	KindRequestExport
)

var eventNames = [...]string{
	KindStart:                "start",
	KindAdvanceGeneralInfo:   "advance_general_info",
	KindSetRatingDimension:   "set_rating_dimension",
	KindSetRatingComment:     "set_rating_comment",
	KindSubmitRating:         "submit_rating",
	KindSetStep2Answer:       "set_step2_answer",
	KindSetStep2Confidence:   "set_step2_confidence",
	KindSetRevisedAnswer:     "set_revised_answer",
	KindSetRevisedConfidence: "set_revised_confidence",
	KindAdvanceStep2:         "advance_step2",
	KindSetClosingAnswer:     "set_closing_answer",
	KindSetClosingFollowUp:   "set_closing_follow_up",
	KindAdvanceClosing:       "advance_closing",
	KindCompleteTransition:   "complete_transition",
	KindRequestExport:        "request_export",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event is an input to the controller.
type Event interface {
	Kind() EventKind
}

// Start leaves the intro screen.
type Start struct{}

// AdvanceGeneralInfo answers the current general-information question.
type AdvanceGeneralInfo struct{ Answer string }

// SetRatingDimension sets one dimension of the current rating.
type SetRatingDimension struct {
	Dimension Dimension
	Value     int
}

// SetRatingComment sets the free-text comment of the current rating.
type SetRatingComment struct{ Comment string }

// SubmitRating finalizes the current rating.
type SubmitRating struct{}

// SetStep2Answer sets the initial free answer.
type SetStep2Answer struct{ Answer string }

// SetStep2Confidence sets the confidence in the initial answer.
type SetStep2Confidence struct{ Value int }

// SetRevisedAnswer sets the answer revised after the AI answer is shown.
type SetRevisedAnswer struct{ Answer string }

// SetRevisedConfidence sets the confidence after the AI answer is shown.
type SetRevisedConfidence struct{ Value int }

// AdvanceStep2 moves from initial to comparison, or past the question.
type AdvanceStep2 struct{}

// SetClosingAnswer sets the main answer of the current closing question.
type SetClosingAnswer struct{ Value string }

// SetClosingFollowUp sets the follow-up answer of the current closing question.
type SetClosingFollowUp struct{ Value string }

// AdvanceClosing moves past the current closing question.
type AdvanceClosing struct{}

// CompleteTransition dismisses the intermediate screen between sections.
type CompleteTransition struct{}

// RequestExport produces the export record once the questionnaire is done.
type RequestExport struct{ Timestamp time.Time }

func (Start) Kind() EventKind                { return KindStart }
func (AdvanceGeneralInfo) Kind() EventKind   { return KindAdvanceGeneralInfo }
func (SetRatingDimension) Kind() EventKind   { return KindSetRatingDimension }
func (SetRatingComment) Kind() EventKind     { return KindSetRatingComment }
func (SubmitRating) Kind() EventKind         { return KindSubmitRating }
func (SetStep2Answer) Kind() EventKind       { return KindSetStep2Answer }
func (SetStep2Confidence) Kind() EventKind   { return KindSetStep2Confidence }
func (SetRevisedAnswer) Kind() EventKind     { return KindSetRevisedAnswer }
func (SetRevisedConfidence) Kind() EventKind { return KindSetRevisedConfidence }
func (AdvanceStep2) Kind() EventKind         { return KindAdvanceStep2 }
func (SetClosingAnswer) Kind() EventKind     { return KindSetClosingAnswer }
func (SetClosingFollowUp) Kind() EventKind   { return KindSetClosingFollowUp }
func (AdvanceClosing) Kind() EventKind       { return KindAdvanceClosing }
func (CompleteTransition) Kind() EventKind   { return KindCompleteTransition }
func (RequestExport) Kind() EventKind        { return KindRequestExport }
