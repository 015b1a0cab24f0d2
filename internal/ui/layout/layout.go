package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/medval/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// Below this height screens drop blank spacer lines.
	CompactHeightThreshold = 30
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactHeight reports whether screens should render without spacing.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall reports whether the terminal cannot hold the frame.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the respondent to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The questionnaire needs at least %d x %d.\n\nCurrent size: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// Header is the content of the top bar.
type Header struct {
	Title string
	// Progress is the completion percentage, 0-100.
	Progress float64
	// Steps names the questionnaire sections in order; Current indexes
	// the active one and is -1 before the first.
	Steps   []string
	Current int
}

// RenderHeader draws the product name, screen title and completion on
// one line, with the section breadcrumb beneath when Steps is set.
func RenderHeader(h Header, width int) string {
	inner := max(width-4, 0) // border + padding

	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("MedVal")
	title := lipgloss.NewStyle().Foreground(theme.Text).Render(h.Title)
	done := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%3.0f%% complete", h.Progress))

	lines := []string{spread(inner, name, title, done)}
	if len(h.Steps) > 0 {
		lines = append(lines, lipgloss.PlaceHorizontal(inner, lipgloss.Center, breadcrumb(h.Steps, h.Current)))
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(strings.Join(lines, "\n"))
}

// spread places left at the start, mid centered and right at the end of
// a line of the given width.
func spread(width int, left, mid, right string) string {
	lw, mw, rw := lipgloss.Width(left), lipgloss.Width(mid), lipgloss.Width(right)
	gapL := max((width-mw)/2-lw, 1)
	gapR := max(width-lw-gapL-mw-rw, 1)
	return left + strings.Repeat(" ", gapL) + mid + strings.Repeat(" ", gapR) + right
}

func breadcrumb(steps []string, current int) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		switch {
		case i < current:
			parts[i] = theme.SuccessText.Render("✓ " + s)
		case i == current:
			parts[i] = theme.Selected.Render("● " + s)
		default:
			parts[i] = theme.Unset.Render("○ " + s)
		}
	}
	return strings.Join(parts, theme.Unset.Render("  ›  "))
}

// RenderFooter draws the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		if h.Key == "" {
			parts = append(parts, desc.Render(h.Description))
			continue
		}
		parts = append(parts, key.Render(h.Key)+" "+desc.Render(h.Description))
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, clipping content to the
// height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(h).
		MaxHeight(h).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
