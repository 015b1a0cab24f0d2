package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rotisserie/eris"

	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/router"
	"github.com/abhisek/medval/internal/screen"
	"github.com/abhisek/medval/internal/screens/closing"
	"github.com/abhisek/medval/internal/screens/done"
	"github.com/abhisek/medval/internal/screens/generalinfo"
	"github.com/abhisek/medval/internal/screens/intro"
	"github.com/abhisek/medval/internal/screens/rating"
	"github.com/abhisek/medval/internal/screens/step2"
	"github.com/abhisek/medval/internal/screens/transition"
	"github.com/abhisek/medval/internal/session"
	"github.com/abhisek/medval/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	sess   *session.Session
	width  int
	height int
}

// newAppModel creates a new AppModel on the screen for the session's
// current state.
func newAppModel(sess *session.Session) AppModel {
	return AppModel{
		router: router.New(screenFor(sess)),
		sess:   sess,
	}
}

var stepNames = []string{"About you", "Step 1: Rating", "Step 2: Q&A", "Closing"}

// currentStep maps a section to its breadcrumb index, -1 on the intro and
// len(stepNames) once done.
func currentStep(st questionnaire.State) int {
	switch st.Section {
	case questionnaire.SectionIntro:
		return -1
	case questionnaire.SectionGeneralInfo:
		return 0
	case questionnaire.SectionStep1Rating:
		return 1
	case questionnaire.SectionStep2QA:
		return 2
	case questionnaire.SectionClosing:
		return 3
	}
	return len(stepNames)
}

// screenFor picks the screen that renders the controller's position.
func screenFor(sess *session.Session) screen.Screen {
	st := sess.State()
	if st.Transitioning {
		return transition.New(sess)
	}
	switch st.Section {
	case questionnaire.SectionGeneralInfo:
		return generalinfo.New(sess)
	case questionnaire.SectionStep1Rating:
		return rating.New(sess)
	case questionnaire.SectionStep2QA:
		return step2.New(sess)
	case questionnaire.SectionClosing:
		return closing.New(sess)
	case questionnaire.SectionDone:
		return done.New(sess)
	}
	return intro.New(sess)
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case session.ChangedMsg:
		return m, m.router.Reset(screenFor(m.sess))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if _, ok := m.router.Active().(screen.Overlay); ok {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(layout.Header{
		Title:    title,
		Progress: m.sess.Progress(),
		Steps:    stepNames,
		Current:  currentStep(m.sess.State()),
	}, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = append(hints, p.KeyHints()...)
	}
	if _, ok := active.(screen.Overlay); ok {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program and blocks until the respondent quits
// or ctx is cancelled.
func Run(ctx context.Context, sess *session.Session, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(newAppModel(sess), opts...)

	stop := context.AfterFunc(ctx, p.Quit)
	defer stop()

	if _, err := p.Run(); err != nil {
		return eris.Wrap(err, "running questionnaire")
	}
	return nil
}
