package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/router"
	"github.com/bloomify/bloomify/internal/screen"
	"github.com/bloomify/bloomify/internal/ui/layout"
	"github.com/bloomify/bloomify/internal/ui/theme"
)

// tickInterval paces the level ladder reveal, one rung per tick.
const tickInterval = 150 * time.Millisecond

type tickMsg time.Time

// Info describes the attempt about to start.
type Info struct {
	SyllabusTitle     string
	Kind              evaluator.Kind
	QuestionsPerLevel int
}

// WelcomeScreen introduces the attempt and climbs the Bloom ladder before
// handing over to the quiz.
type WelcomeScreen struct {
	info         Info
	quizFactory  func() screen.Screen
	revealed     int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen produced
// by quizFactory once the learner is ready.
func New(info Info, quizFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		info:        info,
		quizFactory: quizFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return w.info.SyllabusTitle
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Begin"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.revealed >= bloom.Count {
			return w, nil
		}
		w.revealed++
		return w, tick()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "space", " ":
			return w, w.transition()
		}
		// Any other key finishes the ladder.
		w.revealed = bloom.Count
		return w, nil
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.quizFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderBanner(width), ""}

	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(w.info.SyllabusTitle)
	sections = append(sections, title, describe(w.info), "")

	sections = append(sections, w.renderLadder())

	if w.revealed >= bloom.Count {
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press enter to begin")
		sections = append(sections, "", hint)
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderLadder draws the revealed levels highest first so the learner
// climbs from the bottom rung.
func (w *WelcomeScreen) renderLadder() string {
	levels := bloom.Levels()
	rows := make([]string, 0, len(levels))
	for i := len(levels) - 1; i >= 0; i-- {
		l := levels[i]
		if int(l) >= w.revealed {
			rows = append(rows, "")
			continue
		}
		width := 12 + 4*(bloom.Count-1-int(l))
		rung := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.LevelColor(l)).
			Bold(true).
			Render(l.Title())
		rows = append(rows, rung)
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func describe(info Info) string {
	kind := "written answers"
	if info.Kind == evaluator.KindChoice {
		kind = "multiple choice"
	}
	line := fmt.Sprintf("%d questions per level · %s", info.QuestionsPerLevel, kind)
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
}
