package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/bloomify/bloomify/internal/assessment"
	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/screen"
	"github.com/bloomify/bloomify/internal/ui/components"
	"github.com/bloomify/bloomify/internal/ui/layout"
	"github.com/bloomify/bloomify/internal/ui/theme"
)

// SummaryScreen displays the feedback for a finished attempt.
type SummaryScreen struct {
	result *assessment.FinishResult
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result *assessment.FinishResult) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Exit"},
		{Key: "Esc", Description: "Exit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.result == nil {
		return ""
	}
	fb := s.result.Feedback

	var b strings.Builder

	if s.result.Reason != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(s.result.Reason))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TierColor(fb.Tier)).
		Bold(true).
		Render(strings.ToUpper(string(fb.Tier))))
	b.WriteString("\n")
	msg := lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fb.Message)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, msg))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Highest level: %s        Correct: %d/%d        Accuracy: %.1f%%",
		fb.MaxLevelReached.Title(), fb.TotalCorrect, fb.TotalAttempted, fb.Accuracy)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	if len(fb.Breakdown) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Levels")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, ls := range fb.Breakdown {
			bar := components.ProgressBar{
				Label:      ls.Level.Title(),
				LabelWidth: levelLabelWidth,
				Percent:    ls.Accuracy / 100,
				Width:      min(width-36, 40),
				Fill:       theme.LevelColor(ls.Level),
			}
			line := fmt.Sprintf("%s  %d/%d  %s", bar.View(), ls.Correct, ls.Attempted, ls.Verdict())
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
			b.WriteString("\n")
		}
	}

	switch {
	case s.result.PersistErr != nil:
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Warning).
			Render("These results could not be saved: " + s.result.PersistErr.Error()))
	case s.result.RecordID != "":
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Saved as " + s.result.RecordID))
	}

	return b.String()
}

var levelLabelWidth = func() int {
	w := 0
	for _, l := range bloom.Levels() {
		w = max(w, len(l.Title()))
	}
	return w
}()
