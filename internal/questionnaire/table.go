package questionnaire

// tableKey is a row of the transition table.
type tableKey struct {
	section       Section
	phase         Phase
	transitioning bool
	event         EventKind
}

type handler func(*Controller, Event) ([]Effect, error)

func keyFor(s State, k EventKind) tableKey {
	return tableKey{section: s.Section, phase: s.Phase, transitioning: s.Transitioning, event: k}
}

// on adapts a typed handler to the table, accepting events by value or
// by pointer.
func on[T Event](fn func(*Controller, T) ([]Effect, error)) handler {
	return func(c *Controller, ev Event) ([]Effect, error) {
		if e, ok := ev.(T); ok {
			return fn(c, e)
		}
		if p, ok := any(ev).(*T); ok && p != nil {
			return fn(c, *p)
		}
		return nil, &TransitionError{State: c.state, Event: ev.Kind()}
	}
}

// table lists every legal (state, event) pair. Anything missing is refused.
var table = map[tableKey]handler{
	{SectionIntro, PhaseNone, false, KindStart}: on((*Controller).start),

	{SectionGeneralInfo, PhaseNone, false, KindAdvanceGeneralInfo}: on((*Controller).advanceGeneralInfo),

	{SectionStep1Rating, PhaseNone, true, KindCompleteTransition}: on((*Controller).completeTransition),
	{SectionStep1Rating, PhaseNone, false, KindSetRatingDimension}: on((*Controller).setRatingDimension),
	{SectionStep1Rating, PhaseNone, false, KindSetRatingComment}:   on((*Controller).setRatingComment),
	{SectionStep1Rating, PhaseNone, false, KindSubmitRating}:       on((*Controller).submitRating),

	{SectionStep2QA, PhaseNone, true, KindCompleteTransition}:             on((*Controller).completeTransition),
	{SectionStep2QA, PhaseInitial, false, KindSetStep2Answer}:             on((*Controller).setStep2Answer),
	{SectionStep2QA, PhaseInitial, false, KindSetStep2Confidence}:         on((*Controller).setStep2Confidence),
	{SectionStep2QA, PhaseInitial, false, KindAdvanceStep2}:               on((*Controller).revealStep2),
	{SectionStep2QA, PhaseComparison, false, KindSetRevisedAnswer}:        on((*Controller).setRevisedAnswer),
	{SectionStep2QA, PhaseComparison, false, KindSetRevisedConfidence}:    on((*Controller).setRevisedConfidence),
	{SectionStep2QA, PhaseComparison, false, KindAdvanceStep2}:            on((*Controller).finishStep2),

	{SectionClosing, PhaseNone, true, KindCompleteTransition}:  on((*Controller).completeTransition),
	{SectionClosing, PhaseNone, false, KindSetClosingAnswer}:   on((*Controller).setClosingAnswer),
	{SectionClosing, PhaseNone, false, KindSetClosingFollowUp}: on((*Controller).setClosingFollowUp),
	{SectionClosing, PhaseNone, false, KindAdvanceClosing}:     on((*Controller).advanceClosing),

	{SectionDone, PhaseNone, false, KindRequestExport}: on((*Controller).requestExport),
}

// Accepts reports whether the current state has a row for event kind k.
func (c *Controller) Accepts(k EventKind) bool {
	_, ok := table[keyFor(c.state, k)]
	return ok
}
