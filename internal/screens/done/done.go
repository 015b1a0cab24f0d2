package done

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/medval/internal/effects"
	"github.com/abhisek/medval/internal/screen"
	"github.com/abhisek/medval/internal/session"
	"github.com/abhisek/medval/internal/ui/components"
	"github.com/abhisek/medval/internal/ui/layout"
	"github.com/abhisek/medval/internal/ui/theme"
)

// savedMsg reports that every pending effect finished.
type savedMsg struct {
	SessionID string
	Results   []effects.Result
	Err       error
}

// DoneScreen thanks the respondent and saves the answers.
type DoneScreen struct {
	sess    *session.Session
	elapsed time.Duration
	saving  bool
	saved   *savedMsg
}

var _ screen.Screen = (*DoneScreen)(nil)
var _ screen.KeyHintProvider = (*DoneScreen)(nil)

// New creates the final screen.
func New(sess *session.Session) *DoneScreen {
	return &DoneScreen{sess: sess, elapsed: sess.Elapsed()}
}

// Init exports the answers and waits for the save effects in the
// background.
func (s *DoneScreen) Init() tea.Cmd {
	s.saving = true
	sess := s.sess
	return func() tea.Msg {
		rec, err := sess.Export()
		if err != nil {
			return savedMsg{Err: err}
		}
		return savedMsg{SessionID: rec.SessionID, Results: sess.Wait()}
	}
}

func (s *DoneScreen) Title() string { return "Thank You" }

func (s *DoneScreen) KeyHints() []layout.KeyHint {
	if s.saving {
		return []layout.KeyHint{{Key: "", Description: "Saving..."}}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Exit"}}
}

func (s *DoneScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saving = false
		s.saved = &msg
	case tea.KeyMsg:
		if s.saving {
			return s, nil
		}
		switch msg.String() {
		case "enter", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

// Failed reports whether any save failed.
func (s *DoneScreen) Failed() bool {
	if s.saved == nil {
		return false
	}
	if s.saved.Err != nil {
		return true
	}
	for _, r := range s.saved.Results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

func (s *DoneScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	parts := []string{
		theme.Title.Render("Thank you for completing the questionnaire."),
		theme.Subtitle.Render(fmt.Sprintf("Time taken: %s", s.elapsed.Truncate(time.Second))),
		"",
	}

	var lines []string
	switch {
	case s.saving || s.saved == nil:
		lines = append(lines, theme.Hint.Render("Saving your answers..."))
	case s.saved.Err != nil:
		lines = append(lines, theme.ErrorText.Render("Could not export answers: "+s.saved.Err.Error()))
	default:
		lines = append(lines, theme.Body.Render("Session "+s.saved.SessionID))
		for _, r := range s.saved.Results {
			lines = append(lines, resultLine(r))
		}
		if len(s.saved.Results) == 0 {
			lines = append(lines, theme.Hint.Render("No destination configured; answers were not saved."))
		}
	}
	parts = append(parts, components.Card("Your answers", lipgloss.JoinVertical(lipgloss.Left, lines...), cw, false))
	if !s.saving {
		parts = append(parts, "", theme.Hint.Render("Press Enter to exit"))
	}
	return components.Center(lipgloss.JoinVertical(lipgloss.Center, parts...), width, height)
}

func resultLine(r effects.Result) string {
	var what string
	switch r.Kind {
	case effects.KindSaveAnswers:
		what = "Backend"
	case effects.KindWriteFile:
		what = "Local file"
	case effects.KindSubmitRating:
		what = "Rating"
	default:
		what = string(r.Kind)
	}
	if r.Err != nil {
		return theme.ErrorText.Render("✗ " + what + ": " + r.Err.Error())
	}
	return theme.SuccessText.Render("✓ "+what) + theme.Body.Render(" "+r.Location)
}
