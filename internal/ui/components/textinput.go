package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/medval/internal/ui/theme"
)

// TextInput is a single-line free-text answer field. It shows how much of
// the character limit is used once the respondent starts typing.
type TextInput struct {
	in    textinput.Model
	limit int
}

// NewTextInput returns a focused field. A limit of 0 leaves the length
// unbounded.
func NewTextInput(placeholder string, limit int) TextInput {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "› "
	if limit > 0 {
		in.CharLimit = limit
	}
	in.Focus()
	return TextInput{in: in, limit: limit}
}

func (t TextInput) Init() tea.Cmd { return t.in.Focus() }

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.in, cmd = t.in.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	v := t.in.View()
	if n := len([]rune(t.in.Value())); t.limit > 0 && n > 0 && t.in.Focused() {
		v += "  " + theme.Unset.Render(fmt.Sprintf("%d/%d", n, t.limit))
	}
	return v
}

// Value is the typed text without surrounding whitespace.
func (t TextInput) Value() string { return strings.TrimSpace(t.in.Value()) }

func (t *TextInput) Focus() tea.Cmd { return t.in.Focus() }

func (t *TextInput) Blur() { t.in.Blur() }
