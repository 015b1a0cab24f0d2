// Package sessiontest builds sessions over fixed content for screen tests.
package sessiontest

import (
	"sync"
	"time"

	"github.com/abhisek/medval/internal/effects"
	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/session"
)

// Clock is a manually advanced clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Recorder is a Dispatcher that keeps every effect it is given.
type Recorder struct {
	mu      sync.Mutex
	Effects []questionnaire.Effect
	Results []effects.Result
}

func (r *Recorder) Dispatch(effs []questionnaire.Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Effects = append(r.Effects, effs...)
}

func (r *Recorder) Wait() []effects.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Results
}

// Content returns a small questionnaire: two general-info questions (the
// second with options), two step 1 and two step 2 questions, and three
// closing questions where the second carries a follow-up.
func Content() *questionnaire.Content {
	return &questionnaire.Content{
		Instructions: "<p>Dear Clinician,</p><p>Welcome.</p>",
		GeneralInfo: []questionnaire.Question{
			{Text: "What is your age?"},
			{Text: "What is your gender?", Options: []string{"Female", "Male", "Other"}},
		},
		Step1: []questionnaire.Question{
			{Text: "What is PrEP?", Reference: "Pre-exposure prophylaxis", AIAnswer: "PrEP is a preventive medication."},
			{Text: "What is PEP?", Reference: "Post-exposure prophylaxis", AIAnswer: "PEP is taken after exposure."},
		},
		Step2: []questionnaire.Question{
			{Text: "First-line ART regimen?", Reference: "TDF + 3TC + DTG", AIAnswer: "TDF + 3TC + DTG"},
			{Text: "When to test viral load?", AIAnswer: "At 6 and 12 months"},
		},
		Closing: []questionnaire.Question{
			{Text: "How useful was MedGPT?"},
			{Text: "Would you use MedGPT in practice?", FollowUp: "Why not?"},
			{Text: "Any other comments?"},
		},
	}
}

// New creates a session over Content with a fake clock and a Recorder.
func New() (*session.Session, *Recorder, *Clock) {
	return NewWith(Content())
}

// NewWith creates a session over c.
func NewWith(c *questionnaire.Content) (*session.Session, *Recorder, *Clock) {
	clk := &Clock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	rec := &Recorder{}
	ctrl := questionnaire.New(c, questionnaire.Options{Clock: clk, SessionID: "test-session"})
	return session.New(ctrl, rec), rec, clk
}

// ToSection answers everything before sec with valid values and leaves s
// on the first question of sec, past its intermediate screen.
func ToSection(s *session.Session, sec questionnaire.Section) error {
	c := s.Controller()
	do := func(ev questionnaire.Event) error {
		_, err := s.Do(ev)
		return err
	}
	for c.State().Section < sec {
		st := c.State()
		var err error
		switch {
		case st.Section == questionnaire.SectionIntro:
			err = do(questionnaire.Start{})
		case st.Transitioning:
			err = do(questionnaire.CompleteTransition{})
		case st.Section == questionnaire.SectionGeneralInfo:
			err = do(questionnaire.AdvanceGeneralInfo{Answer: "3"})
		case st.Section == questionnaire.SectionStep1Rating:
			for _, d := range questionnaire.AllDimensions() {
				if err = do(questionnaire.SetRatingDimension{Dimension: d, Value: 3}); err != nil {
					return err
				}
			}
			err = do(questionnaire.SubmitRating{})
		case st.Section == questionnaire.SectionStep2QA && st.Phase == questionnaire.PhaseInitial:
			if err = do(questionnaire.SetStep2Answer{Answer: "answer"}); err != nil {
				return err
			}
			if err = do(questionnaire.SetStep2Confidence{Value: 3}); err != nil {
				return err
			}
			err = do(questionnaire.AdvanceStep2{})
		case st.Section == questionnaire.SectionStep2QA:
			if err = do(questionnaire.SetRevisedConfidence{Value: 3}); err != nil {
				return err
			}
			err = do(questionnaire.AdvanceStep2{})
		case st.Section == questionnaire.SectionClosing:
			if c.ClosingKind(st.Index) == questionnaire.KindYesNo {
				err = do(questionnaire.SetClosingAnswer{Value: "yes"})
			} else if c.ClosingKind(st.Index) == questionnaire.KindScale {
				err = do(questionnaire.SetClosingAnswer{Value: "4"})
			}
			if err == nil {
				err = do(questionnaire.AdvanceClosing{})
			}
		}
		if err != nil {
			return err
		}
	}
	if c.State().Transitioning {
		return do(questionnaire.CompleteTransition{})
	}
	return nil
}
