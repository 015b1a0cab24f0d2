package transition

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/screen"
	"github.com/abhisek/medval/internal/session"
	"github.com/abhisek/medval/internal/ui/components"
	"github.com/abhisek/medval/internal/ui/layout"
	"github.com/abhisek/medval/internal/ui/theme"
)

var sectionTitles = map[questionnaire.Section]string{
	questionnaire.SectionStep1Rating: "Step 1: Validation of MedGPT",
	questionnaire.SectionStep2QA:     "Step 2: HIV Clinical Q&A",
	questionnaire.SectionClosing:     "Closing Questions",
}

// TransitionScreen is the intermediate screen between sections.
type TransitionScreen struct {
	sess   *session.Session
	errMsg string
}

var _ screen.Screen = (*TransitionScreen)(nil)
var _ screen.KeyHintProvider = (*TransitionScreen)(nil)

// New creates the screen for the pending transition.
func New(sess *session.Session) *TransitionScreen {
	return &TransitionScreen{sess: sess}
}

func (s *TransitionScreen) Init() tea.Cmd { return nil }

func (s *TransitionScreen) Title() string { return sectionTitles[s.sess.State().Section] }

func (s *TransitionScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
}

func (s *TransitionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "space", " ":
		cmd, err := s.sess.Do(questionnaire.CompleteTransition{})
		s.errMsg = session.Message(err)
		return s, cmd
	}
	return s, nil
}

func (s *TransitionScreen) View(width, height int) string {
	st := s.sess.State()
	cw := components.ContentWidth(width)

	gap := "\n"
	if layout.IsCompactHeight(height) {
		gap = ""
	}
	parts := []string{
		theme.Title.Render(sectionTitles[st.Section]) + gap,
		components.Card("", theme.Body.Render(st.Transition), cw, false) + gap,
		components.NewProgressBar("Overall", s.sess.Progress(), cw).View() + gap,
		theme.Hint.Render("Press Enter to continue"),
	}
	if s.errMsg != "" {
		parts = append(parts, "", theme.ErrorText.Render(s.errMsg))
	}
	return components.Center(lipgloss.JoinVertical(lipgloss.Center, parts...), width, height)
}
