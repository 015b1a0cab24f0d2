package step2

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/screen"
	"github.com/abhisek/medval/internal/session"
	"github.com/abhisek/medval/internal/ui/components"
	"github.com/abhisek/medval/internal/ui/layout"
	"github.com/abhisek/medval/internal/ui/theme"
)

// focus targets
const (
	focusAnswer = iota
	focusConfidence
)

// Step2Screen asks for a free answer and a confidence, then reveals the
// AI answer and asks again.
type Step2Screen struct {
	sess       *session.Session
	index      int
	phase      questionnaire.Phase
	focus      int
	answer     components.TextInput
	confidence components.Scale
	errMsg     string
}

var _ screen.Screen = (*Step2Screen)(nil)
var _ screen.KeyHintProvider = (*Step2Screen)(nil)

// New creates the screen at the controller's current question and phase.
func New(sess *session.Session) *Step2Screen {
	s := &Step2Screen{sess: sess}
	s.reset()
	return s
}

func (s *Step2Screen) reset() {
	st := s.sess.State()
	s.index = st.Index
	s.phase = st.Phase
	s.focus = focusAnswer
	s.errMsg = ""
	s.confidence = components.NewScale(questionnaire.MinScore, questionnaire.MaxScore)
	if s.phase == questionnaire.PhaseComparison {
		s.answer = components.NewTextInput("Revised answer (leave empty to keep yours)...", 1000)
	} else {
		s.answer = components.NewTextInput("Type your answer...", 1000)
	}
}

func (s *Step2Screen) Init() tea.Cmd { return s.answer.Init() }

func (s *Step2Screen) Title() string { return "Step 2: Clinical Q&A" }

func (s *Step2Screen) KeyHints() []layout.KeyHint {
	next := "Show MedGPT answer"
	if s.phase == questionnaire.PhaseComparison {
		next = "Next question"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "0-5", Description: "Confidence"},
		{Key: "Enter", Description: next},
	}
}

func (s *Step2Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.focus == focusAnswer {
			var cmd tea.Cmd
			s.answer, cmd = s.answer.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	switch kmsg.String() {
	case "enter":
		return s.advance()
	case "tab", "shift+tab", "up", "down":
		return s, s.toggleFocus()
	}

	if s.focus == focusAnswer {
		var cmd tea.Cmd
		s.answer, cmd = s.answer.Update(msg)
		return s, cmd
	}

	var changed bool
	s.confidence, changed = s.confidence.Update(msg)
	if !changed {
		return s, nil
	}
	v, _ := s.confidence.Value()
	var ev questionnaire.Event = questionnaire.SetStep2Confidence{Value: v}
	if s.phase == questionnaire.PhaseComparison {
		ev = questionnaire.SetRevisedConfidence{Value: v}
	}
	_, err := s.sess.Do(ev)
	s.errMsg = session.Message(err)
	return s, nil
}

func (s *Step2Screen) toggleFocus() tea.Cmd {
	if s.focus == focusAnswer {
		s.focus = focusConfidence
		s.answer.Blur()
		return nil
	}
	s.focus = focusAnswer
	return s.answer.Focus()
}

// advance records the typed answer and moves to the next phase.
func (s *Step2Screen) advance() (screen.Screen, tea.Cmd) {
	text := s.answer.Value()
	var ev questionnaire.Event
	switch {
	case s.phase == questionnaire.PhaseInitial:
		ev = questionnaire.SetStep2Answer{Answer: text}
	case text != "":
		ev = questionnaire.SetRevisedAnswer{Answer: text}
	}
	if ev != nil {
		if _, err := s.sess.Do(ev); err != nil {
			s.errMsg = session.Message(err)
			return s, nil
		}
	}

	cmd, err := s.sess.Do(questionnaire.AdvanceStep2{})
	if err != nil {
		s.errMsg = session.Message(err)
		return s, nil
	}
	if cmd != nil {
		return s, cmd
	}
	s.reset()
	return s, s.Init()
}

func (s *Step2Screen) View(width, height int) string {
	ctrl := s.sess.Controller()
	q, ok := ctrl.Current()
	if !ok {
		return components.Center(theme.ErrorText.Render(session.Message(questionnaire.ErrNoContent)), width, height)
	}
	cw := components.ContentWidth(width)

	phase := "Your answer"
	if s.phase == questionnaire.PhaseComparison {
		phase = "Compare with MedGPT"
	}
	parts := []string{
		theme.Subtitle.Render(fmt.Sprintf("Question %d of %d   %s", s.index+1, ctrl.Count(), phase)),
		components.Card("Question", theme.Body.Render(q.Text), cw, false),
	}

	if s.phase == questionnaire.PhaseComparison {
		mine := ctrl.Answers().Step2[s.index]
		summary := theme.Body.Render(mine.Answer)
		if mine.Confidence != nil {
			summary += "\n" + theme.Hint.Render("Confidence: "+strconv.Itoa(*mine.Confidence))
		}
		revealed := q
		if r, ok := s.sess.Revealed(); ok {
			revealed = r
		}
		parts = append(parts,
			components.Card("You answered", summary, cw, false),
			components.Card("MedGPT answer", theme.Body.Render(revealed.AIAnswer), cw, false),
		)
	}

	answerTitle, confTitle := "Answer", "Confidence in your answer (0-5)"
	if s.phase == questionnaire.PhaseComparison {
		answerTitle, confTitle = "Revised answer (optional)", "Confidence now (0-5)"
	}
	parts = append(parts,
		components.Card(answerTitle, s.answer.View(), cw, s.focus == focusAnswer),
		components.Card(confTitle, s.confidence.View(), cw, s.focus == focusConfidence),
	)
	if s.errMsg != "" {
		parts = append(parts, theme.ErrorText.Render(s.errMsg))
	}
	return components.Center(lipgloss.JoinVertical(lipgloss.Left, parts...), width, height)
}
