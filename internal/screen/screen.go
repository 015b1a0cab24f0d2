// Package screen defines what the app needs from each questionnaire
// screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/medval/internal/ui/layout"
)

// Screen renders one step of the questionnaire between the header and
// the footer. Screens change the questionnaire only through the session;
// the app swaps screens when the session reports a section change.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body in the space left by header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens whose keys should appear in
// the footer. The app adds the global keys itself.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Overlay marks a screen pushed on top of a questionnaire step, such as
// the evaluation criteria. Esc closes it.
type Overlay interface {
	Screen
	Overlay()
}
