package intro

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/session"
	"github.com/abhisek/medval/internal/session/sessiontest"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Dear Clinician,\n\nWelcome.", "Dear Clinician,\n\nWelcome."},
		{"<p>Dear Clinician,</p><p>Welcome &amp; thanks.</p>", "Dear Clinician,\nWelcome & thanks."},
		{"<ul><li>One</li><li>Two</li></ul>", "• One\n• Two"},
		{"<h2>Title</h2>\n\n\n\n<p>Body</p>", "Title\n\nBody"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnterStarts(t *testing.T) {
	sess, _, _ := sessiontest.New()
	s := New(sess)

	if !strings.Contains(s.View(100, 40), "Dear Clinician") {
		t.Error("instructions not shown")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd != nil || sess.State().Section != questionnaire.SectionIntro {
		t.Fatal("non-enter key started the questionnaire")
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a section change command")
	}
	if _, ok := cmd().(session.ChangedMsg); !ok {
		t.Error("command did not emit ChangedMsg")
	}
	if sess.State().Section != questionnaire.SectionGeneralInfo {
		t.Errorf("section = %v, want general_info", sess.State().Section)
	}
}
