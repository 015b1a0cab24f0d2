package generalinfo

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

// input modes for the current question
type mode int

const (
	modeText mode = iota
	modeChoice
	modeScale
)

// GeneralInfoScreen asks the respondent background questions one at a time.
type GeneralInfoScreen struct {
	sess   *session.Session
	index  int
	mode   mode
	input  components.TextInput
	choice components.Choice
	scale  components.Scale
	errMsg string
}

var _ screen.Screen = (*GeneralInfoScreen)(nil)
var _ screen.KeyHintProvider = (*GeneralInfoScreen)(nil)

// New creates the screen at the controller's current question.
func New(sess *session.Session) *GeneralInfoScreen {
	s := &GeneralInfoScreen{sess: sess}
	s.reset()
	return s
}

// reset builds the input for the current question.
func (s *GeneralInfoScreen) reset() {
	ctrl := s.sess.Controller()
	s.index = ctrl.State().Index
	s.errMsg = ""

	q, _ := ctrl.Current()
	kind := ctrl.GeneralInfoKind(s.index)
	switch {
	case kind == questionnaire.KindScale:
		s.mode = modeScale
		s.scale = components.NewScale(1, 5)
	case kind == questionnaire.KindYesNo:
		s.mode = modeChoice
		s.choice = components.NewChoice([]string{"Yes", "No"})
	case len(q.Options) > 0:
		s.mode = modeChoice
		s.choice = components.NewChoice(q.Options)
	default:
		s.mode = modeText
		s.input = components.NewTextInput("Type your answer...", 200)
	}
}

func (s *GeneralInfoScreen) Init() tea.Cmd {
	if s.mode == modeText {
		return s.input.Init()
	}
	return nil
}

func (s *GeneralInfoScreen) Title() string { return "General Information" }

func (s *GeneralInfoScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Next"}}
	switch s.mode {
	case modeChoice:
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Choose"})
	case modeScale:
		hints = append(hints, layout.KeyHint{Key: "1-5 ←→", Description: "Rate"})
	}
	return hints
}

// value is the answer as currently entered.
func (s *GeneralInfoScreen) value() string {
	switch s.mode {
	case modeChoice:
		return s.choice.Value()
	case modeScale:
		if v, ok := s.scale.Value(); ok {
			return strconv.Itoa(v)
		}
		return ""
	}
	return s.input.Value()
}

func (s *GeneralInfoScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		cmd, err := s.sess.Do(questionnaire.AdvanceGeneralInfo{Answer: s.value()})
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

	var cmd tea.Cmd
	switch s.mode {
	case modeChoice:
		s.choice, cmd = s.choice.Update(msg)
	case modeScale:
		s.scale, _ = s.scale.Update(msg)
	default:
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *GeneralInfoScreen) View(width, height int) string {
	ctrl := s.sess.Controller()
	q, ok := ctrl.Current()
	if !ok {
		return components.Center(theme.ErrorText.Render(session.Message(questionnaire.ErrNoContent)), width, height)
	}
	cw := components.ContentWidth(width)

	var field string
	switch s.mode {
	case modeChoice:
		field = s.choice.View()
	case modeScale:
		field = s.scale.View() + "\n" + theme.Hint.Render("1 = lowest, 5 = highest")
	default:
		field = s.input.View()
	}

	parts := []string{
		theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", s.index+1, ctrl.Count())),
		"",
		components.Card("", theme.Body.Bold(true).Render(q.Text)+"\n\n"+field, cw, true),
	}
	if s.errMsg != "" {
		parts = append(parts, "", theme.ErrorText.Render(s.errMsg))
	}
	return components.Center(lipgloss.JoinVertical(lipgloss.Left, parts...), width, height)
}
