package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/medval/internal/ui/theme"
)

// ProgressBar shows how much of the questionnaire is complete.
type ProgressBar struct {
	Label   string
	Percent float64 // 0-100; clamped when drawn
	Width   int
}

func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, Width: width}
}

func (p ProgressBar) View() string {
	pct := min(max(p.Percent, 0), 100)
	suffix := fmt.Sprintf(" %3.0f%%", pct)

	var label string
	if p.Label != "" {
		label = theme.Label.Render(p.Label) + " "
	}

	bar := max(p.Width-lipgloss.Width(label)-len(suffix), 4)
	filled := int(float64(bar) * pct / 100)

	return label +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", bar-filled)) +
		theme.Hint.Render(suffix)
}
