package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/medval/internal/ui/theme"
)

// Scale picks an integer in [Min, Max] with digit keys or left/right.
// Nothing is selected until the first key.
type Scale struct {
	Min, Max int
	value    int
	set      bool
}

// NewScale creates an unset scale.
func NewScale(min, max int) Scale {
	return Scale{Min: min, Max: max}
}

// Set selects v when it is in range.
func (s *Scale) Set(v int) {
	if v >= s.Min && v <= s.Max {
		s.value, s.set = v, true
	}
}

// Value returns the selection and whether one was made.
func (s Scale) Value() (int, bool) {
	return s.value, s.set
}

// Update reports whether the selection changed.
func (s Scale) Update(msg tea.Msg) (Scale, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, false
	}
	before, wasSet := s.value, s.set

	switch key := kmsg.String(); key {
	case "left", "h":
		switch {
		case !s.set:
			s.Set(s.Min)
		case s.value > s.Min:
			s.value--
		}
	case "right", "l":
		switch {
		case !s.set:
			s.Set(s.Min)
		case s.value < s.Max:
			s.value++
		}
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			s.Set(int(key[0] - '0'))
		}
	}
	return s, s.set != wasSet || s.value != before
}

// View renders every value with the selection highlighted.
func (s Scale) View() string {
	parts := make([]string, 0, s.Max-s.Min+1)
	for v := s.Min; v <= s.Max; v++ {
		label := strconv.Itoa(v)
		if s.set && v == s.value {
			parts = append(parts, theme.Selected.Render("["+label+"]"))
		} else {
			parts = append(parts, theme.Unset.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}
