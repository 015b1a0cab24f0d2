package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/medval/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	s.updates++
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPushAndPop(t *testing.T) {
	r := New(&stubScreen{title: "rating"})

	overlay := &stubScreen{title: "criteria"}
	r.Update(PushScreenMsg{Screen: overlay})

	if r.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", r.Depth())
	}
	if r.Active().Title() != "criteria" {
		t.Errorf("Active() = %q, want criteria", r.Active().Title())
	}
	if !overlay.initRan {
		t.Error("Init() did not run on pushed screen")
	}

	r.Update(PopScreenMsg{})
	if r.Active().Title() != "rating" {
		t.Errorf("Active() after pop = %q, want rating", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "intro"})
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("Depth() after pop at bottom = %d, want 1", r.Depth())
	}
}

func TestReset(t *testing.T) {
	r := New(&stubScreen{title: "rating"})
	r.Push(&stubScreen{title: "criteria"})

	done := &stubScreen{title: "done"}
	r.Reset(done)

	if r.Depth() != 1 || r.Active() != done {
		t.Errorf("Reset left depth %d, active %q", r.Depth(), r.Active().Title())
	}
}

func TestUpdateKeepsReturnedScreen(t *testing.T) {
	first := &stubScreen{title: "first"}
	r := New(first)
	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	if r.Active() != first || first.updates != 1 {
		t.Errorf("Active() = %q after update, updates = %d", r.Active().Title(), first.updates)
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	bottom := &stubScreen{title: "bottom"}
	top := &stubScreen{title: "top"}
	r := New(bottom)
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	if top.updates != 1 || bottom.updates != 0 {
		t.Errorf("updates top=%d bottom=%d, want 1 and 0", top.updates, bottom.updates)
	}
}
