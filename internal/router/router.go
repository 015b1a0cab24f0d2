// Package router keeps the current questionnaire screen and any overlays
// opened on top of it.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/medval/internal/screen"
)

// PushScreenMsg opens Screen as an overlay.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the top overlay.
type PopScreenMsg struct{}

// Router holds one base screen, the questionnaire step, and a stack of
// overlays. Messages go to the topmost screen.
type Router struct {
	base     screen.Screen
	overlays []screen.Screen
}

// New creates a Router showing base. Its Init is left to the caller.
func New(base screen.Screen) *Router {
	return &Router{base: base}
}

// Push opens s over the current screen and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.overlays = append(r.overlays, s)
	return s.Init()
}

// Pop closes the top overlay. The base screen is never popped.
func (r *Router) Pop() tea.Cmd {
	if n := len(r.overlays); n > 0 {
		r.overlays = r.overlays[:n-1]
	}
	return nil
}

// Reset closes all overlays and makes s the base screen.
func (r *Router) Reset(s screen.Screen) tea.Cmd {
	r.base = s
	r.overlays = nil
	return s.Init()
}

// Active is the screen receiving input.
func (r *Router) Active() screen.Screen {
	if n := len(r.overlays); n > 0 {
		return r.overlays[n-1]
	}
	return r.base
}

// Depth counts the base screen and open overlays.
func (r *Router) Depth() int {
	return 1 + len(r.overlays)
}

// Update handles navigation messages and passes everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	}

	next, cmd := r.Active().Update(msg)
	if n := len(r.overlays); n > 0 {
		r.overlays[n-1] = next
	} else {
		r.base = next
	}
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
