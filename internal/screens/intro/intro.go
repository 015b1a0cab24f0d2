package intro

import (
	"fmt"
	"html"
	"regexp"
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

// IntroScreen shows the instructions and starts the questionnaire.
type IntroScreen struct {
	sess   *session.Session
	text   string
	errMsg string
}

var _ screen.Screen = (*IntroScreen)(nil)
var _ screen.KeyHintProvider = (*IntroScreen)(nil)

// New creates the intro screen.
func New(sess *session.Session) *IntroScreen {
	return &IntroScreen{sess: sess, text: PlainText(sess.Controller().Content().Instructions)}
}

func (s *IntroScreen) Init() tea.Cmd { return nil }

func (s *IntroScreen) Title() string { return "Instructions" }

func (s *IntroScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Begin"}}
}

func (s *IntroScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || kmsg.String() != "enter" {
		return s, nil
	}
	cmd, err := s.sess.Do(questionnaire.Start{})
	s.errMsg = session.Message(err)
	return s, cmd
}

func (s *IntroScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	c := s.sess.Controller().Content()

	summary := theme.Subtitle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			sectionLine("General information", len(c.GeneralInfo)),
			sectionLine("Step 1: rate MedGPT answers", len(c.Step1)),
			sectionLine("Step 2: answer, then compare with MedGPT", len(c.Step2)),
			sectionLine("Closing questions", len(c.Closing)),
		))

	parts := []string{
		components.Card("", theme.Body.Render(s.text), cw, false),
		"",
		summary,
		"",
		theme.Hint.Render("Press Enter to begin"),
	}
	if s.errMsg != "" {
		parts = append(parts, "", theme.ErrorText.Render(s.errMsg))
	}
	return components.Center(lipgloss.JoinVertical(lipgloss.Left, parts...), width, height)
}

func sectionLine(name string, n int) string {
	noun := "questions"
	if n == 1 {
		noun = "question"
	}
	return fmt.Sprintf("• %s (%d %s)", name, n, noun)
}

var (
	breakTags = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</h[1-6]>|</li>`)
	listItem  = regexp.MustCompile(`(?i)<li[^>]*>`)
	anyTag    = regexp.MustCompile(`<[^>]+>`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// PlainText renders instructions written as HTML for the terminal. Plain
// text passes through unchanged.
func PlainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	s = breakTags.ReplaceAllString(s, "\n")
	s = listItem.ReplaceAllString(s, "• ")
	s = anyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
