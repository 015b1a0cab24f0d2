package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/medval/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used by question screens so
// that stacked cards align.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 96 {
		w = 96
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded border at width cw. A focused card uses
// the accent border.
func Card(title, content string, cw int, focused bool) string {
	style := theme.Card
	if focused {
		style = theme.FocusCard
	}
	body := content
	if title != "" {
		body = theme.Label.Render(title) + "\n" + content
	}
	return style.Width(cw).Render(body)
}

// Center places content in the middle of the given area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
