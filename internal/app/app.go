package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/bloomify/bloomify/internal/router"
	"github.com/bloomify/bloomify/internal/screen"
	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/screens/quiz"
	"github.com/bloomify/bloomify/internal/screens/welcome"
	"github.com/bloomify/bloomify/internal/ui/layout"
)

// Options configures the interactive quiz.
type Options struct {
	Engine        quiz.Engine
	AttemptID     string
	SyllabusTitle string

	Kind              evaluator.Kind
	QuestionsPerLevel int

	// SkipWelcome starts directly on the first question.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel rooted at the welcome screen, or at
// the quiz when the welcome is skipped.
func newAppModel(opts Options) AppModel {
	quizFactory := func() screen.Screen {
		return quiz.New(opts.Engine, opts.AttemptID, opts.SyllabusTitle)
	}
	var root screen.Screen
	if opts.SkipWelcome {
		root = quizFactory()
	} else {
		root = welcome.New(welcome.Info{
			SyllabusTitle:     opts.SyllabusTitle,
			Kind:              opts.Kind,
			QuestionsPerLevel: opts.QuestionsPerLevel,
		}, quizFactory)
	}
	return AppModel{router: router.New(root)}
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

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
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

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render composes the frame for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	var footerHints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if hp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = hp.KeyHints()
		}
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program for a started attempt and blocks until
// the learner exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
