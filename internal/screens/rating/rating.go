package rating

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/router"
	"github.com/abhisek/medval/internal/screen"
	"github.com/abhisek/medval/internal/screens/criteria"
	"github.com/abhisek/medval/internal/session"
	"github.com/abhisek/medval/internal/ui/components"
	"github.com/abhisek/medval/internal/ui/layout"
	"github.com/abhisek/medval/internal/ui/theme"
)

// commentRow follows the five dimension rows.
const commentRow = questionnaire.NumDimensions

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// RatingScreen collects the five-dimension rating of each AI answer.
type RatingScreen struct {
	sess    *session.Session
	index   int
	cursor  int
	scales  [questionnaire.NumDimensions]components.Scale
	comment components.TextInput
	shown   time.Time
	now     time.Time
	errMsg  string
}

var _ screen.Screen = (*RatingScreen)(nil)
var _ screen.KeyHintProvider = (*RatingScreen)(nil)

// New creates the screen at the controller's current question.
func New(sess *session.Session) *RatingScreen {
	s := &RatingScreen{sess: sess}
	s.reset()
	return s
}

func (s *RatingScreen) reset() {
	s.index = s.sess.State().Index
	s.cursor = 0
	s.errMsg = ""
	for i := range s.scales {
		s.scales[i] = components.NewScale(questionnaire.MinScore, questionnaire.MaxScore)
	}
	s.comment = components.NewTextInput("Optional comment...", 500)
	s.comment.Blur()
	s.shown = time.Now()
	s.now = s.shown
}

func (s *RatingScreen) Init() tea.Cmd { return tick() }

func (s *RatingScreen) Title() string { return "Step 1: Rate MedGPT" }

func (s *RatingScreen) KeyHints() []layout.KeyHint {
	if s.cursor == commentRow {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter", Description: "Submit rating"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "0-5 ←→", Description: "Score"},
		{Key: "Enter", Description: "Submit rating"},
		{Key: "?", Description: "Criteria"},
	}
}

func (s *RatingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		s.now = time.Time(msg)
		return s, tick()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	if s.cursor == commentRow {
		var cmd tea.Cmd
		s.comment, cmd = s.comment.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *RatingScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s.submit()
	case "up", "shift+tab":
		return s, s.move(-1)
	case "down", "tab":
		return s, s.move(1)
	}

	if s.cursor == commentRow {
		var cmd tea.Cmd
		s.comment, cmd = s.comment.Update(msg)
		return s, cmd
	}

	if msg.String() == "?" {
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: criteria.New()} }
	}

	d := questionnaire.Dimension(s.cursor)
	var changed bool
	s.scales[d], changed = s.scales[d].Update(msg)
	if !changed {
		return s, nil
	}
	v, _ := s.scales[d].Value()
	_, err := s.sess.Do(questionnaire.SetRatingDimension{Dimension: d, Value: v})
	s.errMsg = session.Message(err)
	return s, nil
}

func (s *RatingScreen) move(delta int) tea.Cmd {
	next := s.cursor + delta
	if next < 0 || next > commentRow {
		return nil
	}
	s.cursor = next
	if s.cursor == commentRow {
		return s.comment.Focus()
	}
	s.comment.Blur()
	return nil
}

func (s *RatingScreen) submit() (screen.Screen, tea.Cmd) {
	if c := s.comment.Value(); c != "" {
		if _, err := s.sess.Do(questionnaire.SetRatingComment{Comment: c}); err != nil {
			s.errMsg = session.Message(err)
			return s, nil
		}
	}
	cmd, err := s.sess.Do(questionnaire.SubmitRating{})
	if err != nil {
		s.errMsg = session.Message(err)
		return s, nil
	}
	if cmd != nil {
		return s, cmd
	}
	s.reset()
	return s, nil
}

func (s *RatingScreen) View(width, height int) string {
	ctrl := s.sess.Controller()
	q, ok := ctrl.Current()
	if !ok {
		return components.Center(theme.ErrorText.Render(session.Message(questionnaire.ErrNoContent)), width, height)
	}
	cw := components.ContentWidth(width)

	elapsed := s.now.Sub(s.shown).Truncate(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	status := theme.Subtitle.Render(fmt.Sprintf("Question %d of %d   ⏱ %s", s.index+1, ctrl.Count(), elapsed))

	var rows []string
	for _, d := range questionnaire.AllDimensions() {
		label := fmt.Sprintf("%-22s", d.Label())
		if int(d) == s.cursor {
			label = theme.Selected.Render("▸ " + label)
		} else {
			label = theme.Unselected.Render("  " + label)
		}
		rows = append(rows, label+s.scales[d].View())
	}
	commentLabel := theme.Unselected.Render("  Comment               ")
	if s.cursor == commentRow {
		commentLabel = theme.Selected.Render("▸ Comment               ")
	}
	rows = append(rows, commentLabel+s.comment.View())

	parts := []string{
		status,
		components.Card("Question", theme.Body.Render(q.Text), cw, false),
	}
	if q.Reference != "" {
		parts = append(parts, components.Card("Guideline answer", theme.Body.Render(q.Reference), cw, false))
	}
	parts = append(parts,
		components.Card("MedGPT answer", theme.Body.Render(q.AIAnswer), cw, false),
		components.Card("Your rating", lipgloss.JoinVertical(lipgloss.Left, rows...), cw, true),
	)
	if s.errMsg != "" {
		parts = append(parts, theme.ErrorText.Render(s.errMsg))
	}
	return components.Center(lipgloss.JoinVertical(lipgloss.Left, parts...), width, height)
}
