package closing

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/screen"
	"github.com/abhisek/medval/internal/session"
	"github.com/abhisek/medval/internal/ui/components"
	"github.com/abhisek/medval/internal/ui/layout"
	"github.com/abhisek/medval/internal/ui/theme"
)

// ClosingScreen asks the closing questions. A negative yes/no answer opens
// the question's follow-up prompt.
type ClosingScreen struct {
	sess       *session.Session
	index      int
	kind       questionnaire.QuestionKind
	scale      components.Scale
	choice     components.Choice
	text       components.TextInput
	followUp   components.TextInput
	onFollowUp bool
	errMsg     string
}

var _ screen.Screen = (*ClosingScreen)(nil)
var _ screen.KeyHintProvider = (*ClosingScreen)(nil)

// New creates the screen at the controller's current question.
func New(sess *session.Session) *ClosingScreen {
	s := &ClosingScreen{sess: sess}
	s.reset()
	return s
}

func (s *ClosingScreen) reset() {
	ctrl := s.sess.Controller()
	s.index = ctrl.State().Index
	s.kind = ctrl.ClosingKind(s.index)
	s.onFollowUp = false
	s.errMsg = ""

	s.scale = components.NewScale(1, 5)
	s.choice = components.NewChoice([]string{"Yes", "No"})
	s.text = components.NewTextInput("Type your answer...", 1000)
	s.followUp = components.NewTextInput("Please explain...", 1000)
	s.followUp.Blur()
}

func (s *ClosingScreen) Init() tea.Cmd {
	if s.kind == questionnaire.KindText {
		return s.text.Init()
	}
	return nil
}

func (s *ClosingScreen) Title() string { return "Closing Questions" }

func (s *ClosingScreen) KeyHints() []layout.KeyHint {
	var hints []layout.KeyHint
	switch s.kind {
	case questionnaire.KindScale:
		hints = append(hints, layout.KeyHint{Key: "1-5", Description: "Rate"})
	case questionnaire.KindYesNo:
		hints = append(hints, layout.KeyHint{Key: "Y/N ↑↓", Description: "Choose"})
	}
	if s.sess.Controller().FollowUpTriggered() {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Switch field"})
	}
	return append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
}

func (s *ClosingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s.forwardText(msg)
	}

	switch kmsg.String() {
	case "enter":
		return s.advance()
	case "tab", "shift+tab":
		if s.sess.Controller().FollowUpTriggered() {
			return s, s.setFollowUpFocus(!s.onFollowUp)
		}
		return s, nil
	}

	if s.onFollowUp || s.kind == questionnaire.KindText {
		return s.forwardText(msg)
	}

	switch s.kind {
	case questionnaire.KindScale:
		var changed bool
		s.scale, changed = s.scale.Update(msg)
		if changed {
			v, _ := s.scale.Value()
			s.setAnswer(strconv.Itoa(v))
		}
	case questionnaire.KindYesNo:
		switch strings.ToLower(kmsg.String()) {
		case "y":
			s.choice.Select("Yes")
		case "n":
			s.choice.Select("No")
		case "up", "down", "k", "j":
			s.choice, _ = s.choice.Update(msg)
		default:
			return s, nil
		}
		s.setAnswer(strings.ToLower(s.choice.Value()))
		if s.sess.Controller().FollowUpTriggered() {
			return s, s.setFollowUpFocus(true)
		}
	}
	return s, nil
}

func (s *ClosingScreen) forwardText(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case s.onFollowUp:
		s.followUp, cmd = s.followUp.Update(msg)
	case s.kind == questionnaire.KindText:
		s.text, cmd = s.text.Update(msg)
	}
	return s, cmd
}

func (s *ClosingScreen) setFollowUpFocus(on bool) tea.Cmd {
	s.onFollowUp = on
	if on {
		return s.followUp.Focus()
	}
	s.followUp.Blur()
	return nil
}

func (s *ClosingScreen) answered() bool {
	a := s.sess.Controller().Answers().Closing[s.index]
	return a != nil && a.Main != ""
}

func (s *ClosingScreen) setAnswer(v string) {
	_, err := s.sess.Do(questionnaire.SetClosingAnswer{Value: v})
	s.errMsg = session.Message(err)
	if !s.sess.Controller().FollowUpTriggered() {
		s.setFollowUpFocus(false)
	}
}

func (s *ClosingScreen) advance() (screen.Screen, tea.Cmd) {
	ctrl := s.sess.Controller()
	switch s.kind {
	case questionnaire.KindText:
		s.setAnswer(s.text.Value())
	case questionnaire.KindYesNo:
		if !s.answered() {
			s.setAnswer(strings.ToLower(s.choice.Value()))
		}
	}
	if ctrl.FollowUpTriggered() {
		if v := s.followUp.Value(); v != "" {
			if _, err := s.sess.Do(questionnaire.SetClosingFollowUp{Value: v}); err != nil {
				s.errMsg = session.Message(err)
				return s, nil
			}
		}
	}

	cmd, err := s.sess.Do(questionnaire.AdvanceClosing{})
	if err != nil {
		s.errMsg = session.Message(err)
		if ctrl.FollowUpTriggered() {
			return s, s.setFollowUpFocus(true)
		}
		return s, nil
	}
	if cmd != nil {
		return s, cmd
	}
	s.reset()
	return s, s.Init()
}

func (s *ClosingScreen) View(width, height int) string {
	ctrl := s.sess.Controller()
	q, ok := ctrl.Current()
	if !ok {
		return components.Center(theme.ErrorText.Render(session.Message(questionnaire.ErrNoContent)), width, height)
	}
	cw := components.ContentWidth(width)

	var field string
	switch s.kind {
	case questionnaire.KindScale:
		field = s.scale.View() + "\n" + theme.Hint.Render("1 = not at all, 5 = very much")
	case questionnaire.KindYesNo:
		field = s.choice.View()
	default:
		field = s.text.View()
		if s.index == ctrl.Count()-1 {
			field += "\n" + theme.Hint.Render("Optional")
		}
	}

	parts := []string{
		theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", s.index+1, ctrl.Count())),
		components.Card("", theme.Body.Bold(true).Render(q.Text)+"\n\n"+field, cw, !s.onFollowUp),
	}
	if ctrl.FollowUpTriggered() {
		parts = append(parts, components.Card(q.FollowUp, s.followUp.View(), cw, s.onFollowUp))
	}
	if s.errMsg != "" {
		parts = append(parts, theme.ErrorText.Render(s.errMsg))
	}
	return components.Center(lipgloss.JoinVertical(lipgloss.Left, parts...), width, height)
}
