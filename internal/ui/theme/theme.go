// Package theme holds the palette and text styles shared by all screens.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette: clinical blues and teal, amber for whatever has focus.
var (
	Primary   = lipgloss.Color("#2563EB")
	Secondary = lipgloss.Color("#0D9488")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#16A34A")
	Error     = lipgloss.Color("#DC2626")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	// Label heads a field: a rating dimension, "MedGPT answer", ...
	Label = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
)

// Card frames a question; FocusCard frames the field being edited.
var (
	Card      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1)
	FocusCard = Card.BorderForeground(Accent)
)

var (
	Selected   = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	// Unset marks a value the respondent has not given yet.
	Unset       = lipgloss.NewStyle().Foreground(TextDim)
	ErrorText   = lipgloss.NewStyle().Bold(true).Foreground(Error)
	SuccessText = lipgloss.NewStyle().Bold(true).Foreground(Success)
)
