package questionnaire

import (
	"fmt"
	"strings"
	"time"
)

// State is the controller's position. Index and Phase are only meaningful
// for answerable sections.
type State struct {
	Section       Section
	Index         int
	Phase         Phase
	Transitioning bool
	// Transition is the message for the intermediate screen while
	// Transitioning is set.
	Transition string
}

func (s State) String() string {
	str := fmt.Sprintf("%s[%d]", s.Section, s.Index)
	if s.Phase != PhaseNone {
		str += "/" + s.Phase.String()
	}
	if s.Transitioning {
		str += " (transitioning)"
	}
	return str
}

// Options configures a Controller. The zero value uses the strict rating
// policy, the follow-up-on-negative policy and the wall clock.
type Options struct {
	RatingPolicy   RatingPolicy
	FollowUpPolicy FollowUpPolicy
	// GeneralInfoScaleFrom constrains general-info answers from this index
	// on to the 1-5 scale. Zero disables the positional rule; questions
	// whose Kind is scale are always constrained.
	GeneralInfoScaleFrom int
	Clock                Clock
	// SessionID identifies the respondent session in the export. A random
	// UUID is used when empty.
	SessionID string
}

// Controller is the questionnaire state machine. It is not safe for
// concurrent use; callers serialize events.
type Controller struct {
	opts    Options
	content *Content
	answers *Answers
	state   State
	timer   *Tracker
	export  *ExportRecord
}

// New creates a Controller at the intro screen. A nil content is treated
// as content that failed to load entirely.
func New(content *Content, opts Options) *Controller {
	if content == nil {
		content = &Content{}
	}
	if opts.Clock == nil {
		opts.Clock = RealClock
	}
	return &Controller{
		opts:    opts,
		content: content,
		answers: NewAnswers(content),
		state:   State{Section: SectionIntro},
		timer:   NewTracker(opts.Clock),
	}
}

// State returns the current position.
func (c *Controller) State() State { return c.state }

// Content returns the loaded content.
func (c *Controller) Content() *Content { return c.content }

// Answers returns the answer store. Callers must treat it as read-only.
func (c *Controller) Answers() *Answers { return c.answers }

// Options returns the options the controller was created with.
func (c *Controller) Options() Options { return c.opts }

// Done reports whether the questionnaire reached its terminal section.
func (c *Controller) Done() bool { return c.state.Section == SectionDone }

// Current returns the question at the current position. The second result
// is false outside answerable sections, while transitioning, or when the
// section has no content.
func (c *Controller) Current() (Question, bool) {
	if c.state.Transitioning || !c.state.Section.Answerable() {
		return Question{}, false
	}
	qs := c.content.Questions(c.state.Section)
	if c.state.Index >= len(qs) {
		return Question{}, false
	}
	return qs[c.state.Index], true
}

// Count returns the number of questions in the current section.
func (c *Controller) Count() int {
	return len(c.content.Questions(c.state.Section))
}

// Export returns the export record once it has been produced.
func (c *Controller) Export() (ExportRecord, bool) {
	if c.export == nil {
		return ExportRecord{}, false
	}
	return *c.export, true
}

// Apply runs ev against the transition table. On error the state and the
// answer store are left unchanged.
func (c *Controller) Apply(ev Event) ([]Effect, error) {
	if ev == nil {
		return nil, fmt.Errorf("questionnaire: nil event")
	}
	if c.state.Section == SectionDone && ev.Kind() != KindRequestExport {
		return nil, ErrSessionDone
	}
	h, ok := table[keyFor(c.state, ev.Kind())]
	if !ok {
		return nil, &TransitionError{State: c.state, Event: ev.Kind()}
	}
	if !c.state.Transitioning && c.state.Section.Answerable() && c.Count() == 0 {
		return nil, fmt.Errorf("%s: %w", c.state.Section, ErrNoContent)
	}
	return h(c, ev)
}

// Start leaves the intro screen.
func (c *Controller) Start() ([]Effect, error) { return c.Apply(Start{}) }

// AdvanceGeneralInfo stores answer for the current general-info question
// and moves on.
func (c *Controller) AdvanceGeneralInfo(answer string) ([]Effect, error) {
	return c.Apply(AdvanceGeneralInfo{Answer: answer})
}

// SetRatingDimension sets one dimension of the current rating.
func (c *Controller) SetRatingDimension(d Dimension, value int) ([]Effect, error) {
	return c.Apply(SetRatingDimension{Dimension: d, Value: value})
}

// SetRatingComment sets the comment of the current rating.
func (c *Controller) SetRatingComment(comment string) ([]Effect, error) {
	return c.Apply(SetRatingComment{Comment: comment})
}

// SubmitRating finalizes the current rating and moves on.
func (c *Controller) SubmitRating() ([]Effect, error) { return c.Apply(SubmitRating{}) }

func (c *Controller) SetStep2Answer(answer string) ([]Effect, error) {
	return c.Apply(SetStep2Answer{Answer: answer})
}

func (c *Controller) SetStep2Confidence(v int) ([]Effect, error) {
	return c.Apply(SetStep2Confidence{Value: v})
}

func (c *Controller) SetRevisedAnswer(answer string) ([]Effect, error) {
	return c.Apply(SetRevisedAnswer{Answer: answer})
}

func (c *Controller) SetRevisedConfidence(v int) ([]Effect, error) {
	return c.Apply(SetRevisedConfidence{Value: v})
}

// AdvanceStep2 reveals the AI answer, or finishes the current question.
func (c *Controller) AdvanceStep2() ([]Effect, error) { return c.Apply(AdvanceStep2{}) }

func (c *Controller) SetClosingAnswer(v string) ([]Effect, error) {
	return c.Apply(SetClosingAnswer{Value: v})
}

func (c *Controller) SetClosingFollowUp(v string) ([]Effect, error) {
	return c.Apply(SetClosingFollowUp{Value: v})
}

// AdvanceClosing moves past the current closing question.
func (c *Controller) AdvanceClosing() ([]Effect, error) { return c.Apply(AdvanceClosing{}) }

// CompleteTransition dismisses the intermediate screen.
func (c *Controller) CompleteTransition() ([]Effect, error) {
	return c.Apply(CompleteTransition{})
}

// RequestExport builds the export record stamped with ts. A zero ts uses
// the controller's clock.
func (c *Controller) RequestExport(ts time.Time) ([]Effect, error) {
	return c.Apply(RequestExport{Timestamp: ts})
}

// GeneralInfoKind returns the answer shape required for general-info
// question i.
func (c *Controller) GeneralInfoKind(i int) QuestionKind {
	var q Question
	if i >= 0 && i < len(c.content.GeneralInfo) {
		q = c.content.GeneralInfo[i]
	}
	if q.Kind == KindScale || (c.opts.GeneralInfoScaleFrom > 0 && i >= c.opts.GeneralInfoScaleFrom) {
		return KindScale
	}
	if q.Kind == KindYesNo {
		return KindYesNo
	}
	return KindText
}

// ClosingKind returns the answer shape required for closing question i.
// The final question is free text; the others default to the 1-5 scale,
// or to yes/no when they carry a follow-up prompt.
func (c *Controller) ClosingKind(i int) QuestionKind {
	qs := c.content.Closing
	if i == len(qs)-1 {
		return KindText
	}
	if i < 0 || i >= len(qs) {
		return KindScale
	}
	q := qs[i]
	switch {
	case q.Kind != "":
		return q.Kind
	case q.HasFollowUp():
		return KindYesNo
	}
	return KindScale
}

// FollowUpTriggered reports whether the follow-up prompt of the current
// closing question should be shown for its current answer.
func (c *Controller) FollowUpTriggered() bool {
	if c.state.Section != SectionClosing {
		return false
	}
	q, ok := c.Current()
	if !ok {
		return false
	}
	return c.opts.FollowUpPolicy.Triggered(q, c.answers.peekClosing(c.state.Index).Main)
}

func (c *Controller) invalid(reason string) error {
	return &ValidationError{Section: c.state.Section, Index: c.state.Index, Reason: reason}
}

// beginTransition moves to the start of next behind the intermediate screen.
func (c *Controller) beginTransition(next Section) []Effect {
	msg := c.content.IntroFor(next)
	c.state = State{Section: next, Transitioning: true, Transition: msg}
	return []Effect{TransitionStarted{To: next, Message: msg}}
}

// enterQuestion makes index i of the current section current and opens its
// timer when the section is timed.
func (c *Controller) enterQuestion(i int) []Effect {
	c.state.Index = i
	if c.state.Section == SectionStep2QA {
		c.state.Phase = PhaseInitial
	}
	if !c.state.Section.Timed() || i >= c.Count() {
		return nil
	}
	c.timer.Open(c.state.Section, i)
	return []Effect{TimerStarted{Section: c.state.Section, Index: i}}
}

func (c *Controller) start(Start) ([]Effect, error) {
	c.state = State{Section: SectionGeneralInfo}
	return nil, nil
}

func (c *Controller) advanceGeneralInfo(e AdvanceGeneralInfo) ([]Effect, error) {
	i := c.state.Index
	if reason := checkShape(c.GeneralInfoKind(i), e.Answer); reason != "" {
		return nil, c.invalid(reason)
	}
	c.answers.GeneralInfo = append(c.answers.GeneralInfo[:i], strings.TrimSpace(e.Answer))
	if i+1 < c.Count() {
		c.state.Index++
		return nil, nil
	}
	return c.beginTransition(SectionStep1Rating), nil
}

func (c *Controller) setRatingDimension(e SetRatingDimension) ([]Effect, error) {
	if !e.Dimension.Valid() {
		return nil, c.invalid(fmt.Sprintf("unknown rating dimension %d", int(e.Dimension)))
	}
	if !validScore(e.Value) {
		return nil, c.invalid(fmt.Sprintf("%s must be between %d and %d", e.Dimension.Label(), MinScore, MaxScore))
	}
	r := c.answers.rating(c.state.Index)
	r.Scores[e.Dimension] = e.Value
	r.set[e.Dimension] = true
	return nil, nil
}

func (c *Controller) setRatingComment(e SetRatingComment) ([]Effect, error) {
	c.answers.rating(c.state.Index).Comment = e.Comment
	return nil, nil
}

func (c *Controller) submitRating(SubmitRating) ([]Effect, error) {
	i := c.state.Index
	if !c.opts.RatingPolicy.Satisfied(c.answers.peekRating(i)) {
		return nil, c.invalid("rate all five dimensions before submitting")
	}
	r := c.answers.rating(i)
	r.TimeSpent = intPtr(c.timer.Close())
	r.submitted = true
	effects := []Effect{RatingSubmission{Record: newRatingRecord(i, c.content.Step1[i], r)}}

	if i+1 < c.Count() {
		return append(effects, c.enterQuestion(i+1)...), nil
	}
	return append(effects, c.beginTransition(SectionStep2QA)...), nil
}

func (c *Controller) setStep2Answer(e SetStep2Answer) ([]Effect, error) {
	c.answers.step2(c.state.Index).Answer = e.Answer
	return nil, nil
}

func (c *Controller) setStep2Confidence(e SetStep2Confidence) ([]Effect, error) {
	if !validScore(e.Value) {
		return nil, c.invalid(fmt.Sprintf("confidence must be between %d and %d", MinScore, MaxScore))
	}
	c.answers.step2(c.state.Index).Confidence = intPtr(e.Value)
	return nil, nil
}

func (c *Controller) setRevisedAnswer(e SetRevisedAnswer) ([]Effect, error) {
	c.answers.step2(c.state.Index).RevisedAnswer = strPtr(e.Answer)
	return nil, nil
}

func (c *Controller) setRevisedConfidence(e SetRevisedConfidence) ([]Effect, error) {
	if !validScore(e.Value) {
		return nil, c.invalid(fmt.Sprintf("confidence must be between %d and %d", MinScore, MaxScore))
	}
	c.answers.step2(c.state.Index).RevisedConfidence = intPtr(e.Value)
	return nil, nil
}

// revealStep2 ends the initial phase of the current question.
func (c *Controller) revealStep2(AdvanceStep2) ([]Effect, error) {
	i := c.state.Index
	a := c.answers.peekStep2(i)
	if strings.TrimSpace(a.Answer) == "" {
		return nil, c.invalid("an answer is required")
	}
	if a.Confidence == nil {
		return nil, c.invalid("rate your confidence in your answer")
	}
	c.state.Phase = PhaseComparison
	return []Effect{AnswerRevealed{Index: i, Question: c.content.Step2[i]}}, nil
}

// finishStep2 ends the comparison phase and leaves the current question.
func (c *Controller) finishStep2(AdvanceStep2) ([]Effect, error) {
	i := c.state.Index
	if c.answers.peekStep2(i).RevisedConfidence == nil {
		return nil, c.invalid("rate your confidence again after reading the AI answer")
	}
	c.answers.step2(i).TimeSpent = intPtr(c.timer.Close())

	if i+1 < c.Count() {
		return c.enterQuestion(i + 1), nil
	}
	return c.beginTransition(SectionClosing), nil
}

func (c *Controller) setClosingAnswer(e SetClosingAnswer) ([]Effect, error) {
	c.answers.closing(c.state.Index).Main = e.Value
	return nil, nil
}

func (c *Controller) setClosingFollowUp(e SetClosingFollowUp) ([]Effect, error) {
	c.answers.closing(c.state.Index).FollowUp = strPtr(e.Value)
	return nil, nil
}

func (c *Controller) advanceClosing(AdvanceClosing) ([]Effect, error) {
	i := c.state.Index
	if i == c.Count()-1 {
		// The final comments question may be left blank.
		if a := c.answers.Closing[i]; a != nil {
			a.Main = strings.TrimSpace(a.Main)
			a.finalized = true
		}
		return c.finish(), nil
	}

	q := c.content.Closing[i]
	a := c.answers.peekClosing(i)
	if reason := checkShape(c.ClosingKind(i), a.Main); reason != "" {
		return nil, c.invalid(reason)
	}
	if c.opts.FollowUpPolicy.Required(q, a.Main) && (a.FollowUp == nil || strings.TrimSpace(*a.FollowUp) == "") {
		return nil, c.invalid("please explain your answer")
	}

	rec := c.answers.closing(i)
	rec.Main = strings.TrimSpace(rec.Main)
	if !c.opts.FollowUpPolicy.Triggered(q, rec.Main) {
		rec.FollowUp = nil
	}
	rec.finalized = true
	c.state.Index++
	return nil, nil
}

func (c *Controller) finish() []Effect {
	c.state = State{Section: SectionDone}
	return []Effect{Completed{}}
}

func (c *Controller) completeTransition(CompleteTransition) ([]Effect, error) {
	c.state.Transitioning = false
	c.state.Transition = ""
	return c.enterQuestion(0), nil
}

func (c *Controller) requestExport(e RequestExport) ([]Effect, error) {
	if c.export != nil {
		return nil, ErrAlreadyExported
	}
	ts := e.Timestamp
	if ts.IsZero() {
		ts = c.opts.Clock.Now()
	}
	rec := BuildExport(ExportMeta{SessionID: c.opts.SessionID, Timestamp: ts}, c.content, c.answers)
	c.export = &rec
	return []Effect{SaveAnswers{Record: rec}, WriteExportFile{Record: rec}}, nil
}
