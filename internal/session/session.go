// Package session runs one respondent's questionnaire inside the TUI. It
// feeds events to the controller, hands the resulting effects to the
// dispatcher and tells the app when the screen must change.
package session

import (
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/medval/internal/effects"
	"github.com/abhisek/medval/internal/questionnaire"
)

// Dispatcher performs I/O effects in the background.
type Dispatcher interface {
	Dispatch(effs []questionnaire.Effect)
	Wait() []effects.Result
}

// ChangedMsg is sent when the controller entered another section or an
// intermediate screen, so the app can swap screens.
type ChangedMsg struct {
	State questionnaire.State
}

// Session owns the controller for the lifetime of the program.
type Session struct {
	ctrl     *questionnaire.Controller
	disp     Dispatcher
	clock    questionnaire.Clock
	started  time.Time
	revealed *questionnaire.Question
}

// New creates a Session. A nil dispatcher drops every I/O effect.
func New(ctrl *questionnaire.Controller, disp Dispatcher) *Session {
	clock := ctrl.Options().Clock
	if clock == nil {
		clock = questionnaire.RealClock
	}
	return &Session{ctrl: ctrl, disp: disp, clock: clock, started: clock.Now()}
}

// Controller returns the questionnaire controller. Screens read from it
// and change it only through Do.
func (s *Session) Controller() *questionnaire.Controller { return s.ctrl }

// State returns the controller position.
func (s *Session) State() questionnaire.State { return s.ctrl.State() }

// Progress returns the completion percentage.
func (s *Session) Progress() float64 { return s.ctrl.Progress() }

// Elapsed is the time since the session was created.
func (s *Session) Elapsed() time.Duration { return s.clock.Now().Sub(s.started) }

// Revealed returns the question whose AI answer was last revealed in the
// comparison phase.
func (s *Session) Revealed() (questionnaire.Question, bool) {
	if s.revealed == nil {
		return questionnaire.Question{}, false
	}
	return *s.revealed, true
}

// Do applies ev. A refused event returns its error and leaves everything
// unchanged; screens show validation errors to the respondent. The
// returned command, when non-nil, emits ChangedMsg.
func (s *Session) Do(ev questionnaire.Event) (tea.Cmd, error) {
	before := s.ctrl.State()

	effs, err := s.ctrl.Apply(ev)
	if err != nil {
		if errors.Is(err, questionnaire.ErrValidation) {
			zap.L().Debug("session: answer refused", zap.Stringer("event", ev.Kind()), zap.Error(err))
		} else {
			zap.L().Warn("session: event rejected", zap.Stringer("event", ev.Kind()), zap.Stringer("state", before), zap.Error(err))
		}
		return nil, err
	}

	for _, e := range effs {
		switch e := e.(type) {
		case questionnaire.AnswerRevealed:
			q := e.Question
			s.revealed = &q
		case questionnaire.TransitionStarted:
			zap.L().Info("session: section finished", zap.Stringer("from", before.Section), zap.Stringer("to", e.To))
		case questionnaire.Completed:
			zap.L().Info("session: questionnaire completed", zap.Duration("elapsed", s.Elapsed()))
		}
	}
	if s.disp != nil {
		s.disp.Dispatch(effs)
	}

	after := s.ctrl.State()
	if after.Section == before.Section && after.Transitioning == before.Transitioning {
		return nil, nil
	}
	return func() tea.Msg { return ChangedMsg{State: after} }, nil
}

// Export produces the export record and starts saving it.
func (s *Session) Export() (questionnaire.ExportRecord, error) {
	if _, err := s.Do(questionnaire.RequestExport{Timestamp: s.clock.Now().UTC()}); err != nil {
		return questionnaire.ExportRecord{}, err
	}
	rec, _ := s.ctrl.Export()
	return rec, nil
}

// Wait blocks until every dispatched effect has finished.
func (s *Session) Wait() []effects.Result {
	if s.disp == nil {
		return nil
	}
	return s.disp.Wait()
}
