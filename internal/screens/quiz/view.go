package quiz

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/bloomify/bloomify/internal/assessment"
	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/progression"
	"github.com/bloomify/bloomify/internal/ui/theme"
)

func centered(width int, fg color.Color, bold bool, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Bold(bold).
		Render(text)
}

// renderQuestion renders the active question and its answer area.
func (s *QuizScreen) renderQuestion(width int) string {
	t := s.turn
	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.LevelColor(t.Level)).
		Bold(true).
		Render(fmt.Sprintf("  %s", t.Level.Title()))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d/%d at this level   #%d",
			t.Position, t.QuestionsPerLevel, t.Number))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	q := lipgloss.NewStyle().
		Width(min(width-8, 76)).
		Foreground(theme.Text).
		Bold(true).
		Render(t.Question.Text)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, q))
	b.WriteString("\n\n")

	if t.Question.Kind == evaluator.KindChoice {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
		return b.String()
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+s.input.View()))
	return b.String()
}

// renderFeedback renders the result of the last answer.
func (s *QuizScreen) renderFeedback(width int) string {
	res := s.result
	q := s.turn.Question

	var b strings.Builder
	b.WriteString("\n")

	if res.Result.Correct {
		b.WriteString(centered(width, theme.Success, true, "Correct!"))
	} else {
		b.WriteString(centered(width, theme.Error, true, "Not quite"))
	}
	b.WriteString("\n")

	if res.EmptyResponse {
		b.WriteString(centered(width, theme.TextDim, false, "No answer given."))
		b.WriteString("\n")
	}

	if q.Kind == evaluator.KindChoice {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	} else {
		b.WriteString(centered(width, theme.TextDim, false, fmt.Sprintf("Score: %.0f%%", res.Result.Score)))
		b.WriteString("\n\n")
		if matched := res.Result.MatchedKeywords(); len(matched) > 0 {
			b.WriteString(centered(width, theme.Success, false, "Covered: "+strings.Join(matched, ", ")))
			b.WriteString("\n")
		}
		if len(res.Result.Unmatched) > 0 {
			b.WriteString(centered(width, theme.Accent, false, "Missing: "+strings.Join(res.Result.Unmatched, ", ")))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	headline, fg := transitionLine(res)
	if headline != "" {
		b.WriteString(centered(width, fg, true, headline))
		b.WriteString("\n\n")
	}

	b.WriteString(centered(width, theme.TextDim, false, "Press any key to continue..."))
	return b.String()
}

func transitionLine(res *assessment.SubmitResult) (string, color.Color) {
	switch res.Transition {
	case progression.Advance:
		return fmt.Sprintf("Level up! Next: %s", res.NextLevel.Title()), theme.LevelColor(res.NextLevel)
	case progression.Regress:
		return fmt.Sprintf("Stepping back to %s", res.NextLevel.Title()), theme.Accent
	case progression.Master:
		return "All levels mastered!", theme.Primary
	case progression.FailOut:
		return "The quiz has ended.", theme.Error
	}
	if res.Terminal {
		return "The quiz has ended.", theme.TextDim
	}
	return "", nil
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, theme.Text, true, "Abandon this quiz?"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.TextDim, false, "Answers so far will not be recorded."))
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Error, false, "[Y] Yes, abandon"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Primary, false, "[N] No, keep going"))
	return b.String()
}

func (s *QuizScreen) renderLoading(width int, label string) string {
	return centered(width, theme.TextDim, false, "\n\n\n"+s.spinner.View()+" "+label)
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to exit.", errMsg))
}
