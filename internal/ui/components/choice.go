package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/medval/internal/ui/theme"
)

// Choice is a vertical single-choice selector.
type Choice struct {
	Options  []string
	Selected int
}

// NewChoice creates a selector over options.
func NewChoice(options []string) Choice {
	return Choice{Options: options}
}

// Select moves the cursor to the option equal to value, if any.
func (c *Choice) Select(value string) {
	for i, o := range c.Options {
		if o == value {
			c.Selected = i
			return
		}
	}
}

// Update handles up/down navigation.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	}
	return c, nil
}

// Value returns the option under the cursor.
func (c Choice) Value() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	return c.Options[c.Selected]
}

// View renders the options.
func (c Choice) View() string {
	var s string
	for i, opt := range c.Options {
		if i == c.Selected {
			s += theme.Selected.Render("▸ "+opt) + "\n"
		} else {
			s += theme.Unselected.Render("  "+opt) + "\n"
		}
	}
	return s
}
