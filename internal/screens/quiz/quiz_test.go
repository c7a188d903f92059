package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/bloomify/bloomify/internal/assessment"
	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/progression"
	"github.com/bloomify/bloomify/internal/router"
	"github.com/bloomify/bloomify/internal/screen"
	"github.com/bloomify/bloomify/internal/screens/summary"
)

// fakeEngine records calls and returns canned results.
type fakeEngine struct {
	turn      *assessment.Turn
	turnErr   error
	submitted []string
	result    *assessment.SubmitResult
	finished  bool
	abandoned bool
}

func (f *fakeEngine) NextQuestion(context.Context, string) (*assessment.Turn, error) {
	return f.turn, f.turnErr
}

func (f *fakeEngine) Submit(_ context.Context, _ string, response string) (*assessment.SubmitResult, error) {
	f.submitted = append(f.submitted, response)
	return f.result, nil
}

func (f *fakeEngine) Finish(context.Context, string) (*assessment.FinishResult, error) {
	f.finished = true
	return &assessment.FinishResult{Reason: progression.StatusEndedEarly.Reason()}, nil
}

func (f *fakeEngine) Abandon(context.Context, string) error {
	f.abandoned = true
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func descriptiveTurn() *assessment.Turn {
	return &assessment.Turn{
		AttemptID: "a1",
		Level:     bloom.Understand,
		Position:  1, QuestionsPerLevel: 3, Number: 4,
		Question: &evaluator.Signature{
			Kind:     evaluator.KindDescriptive,
			Text:     "Explain what a goroutine is.",
			Keywords: []string{"lightweight", "thread", "runtime"},
		},
	}
}

func choiceTurn() *assessment.Turn {
	return &assessment.Turn{
		AttemptID: "a1",
		Level:     bloom.Remember,
		Position:  1, QuestionsPerLevel: 3, Number: 1,
		Question: &evaluator.Signature{
			Kind:          evaluator.KindChoice,
			Text:          "Which keyword starts a goroutine?",
			Options:       []string{"go", "defer", "async", "spawn"},
			CorrectOption: "go",
		},
	}
}

// run executes cmd and feeds every resulting message back into the screen,
// stopping at navigation, quit and spinner messages.
func run(t *testing.T, scr screen.Screen, cmd tea.Cmd) (screen.Screen, []tea.Msg) {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch m := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, m...)
			continue
		case router.ReplaceScreenMsg, tea.QuitMsg:
			out = append(out, m)
			continue
		case spinner.TickMsg:
			continue
		}
		var next tea.Cmd
		scr, next = scr.Update(msg)
		out = append(out, msg)
		queue = append(queue, next)
	}
	return scr, out
}

func answering(t *testing.T, eng *fakeEngine) screen.Screen {
	t.Helper()
	scr := screen.Screen(New(eng, "a1", "Go"))
	scr, _ = scr.Update(turnReadyMsg{Turn: eng.turn})
	return scr
}

func TestQuizScreen_Title(t *testing.T) {
	if got := New(&fakeEngine{}, "a1", "Go Basics").Title(); got != "Go Basics" {
		t.Errorf("Title = %q", got)
	}
	if got := New(&fakeEngine{}, "a1", "").Title(); got != "Quiz" {
		t.Errorf("Title = %q, want Quiz", got)
	}
}

func TestQuizScreen_View_Loading(t *testing.T) {
	s := New(&fakeEngine{}, "a1", "Go")
	if !strings.Contains(s.View(80, 24), "Preparing") {
		t.Error("expected loading view")
	}
}

func TestQuizScreen_ShowsQuestion(t *testing.T) {
	scr := answering(t, &fakeEngine{turn: descriptiveTurn()})
	view := scr.View(100, 30)
	if !strings.Contains(view, "goroutine") {
		t.Errorf("question missing from view:\n%s", view)
	}
	if !strings.Contains(view, "Understand") {
		t.Error("level missing from view")
	}
}

func TestQuizScreen_DescriptiveSubmit(t *testing.T) {
	eng := &fakeEngine{
		turn: descriptiveTurn(),
		result: &assessment.SubmitResult{
			Result:     evaluator.ScoreDescriptive("a lightweight thread", []string{"lightweight", "thread", "runtime"}),
			Level:      bloom.Understand,
			Transition: progression.Hold,
			NextLevel:  bloom.Understand,
		},
	}
	scr := answering(t, eng)
	for _, r := range "a lightweight thread" {
		scr, _ = scr.Update(keyPress(r))
	}
	scr, cmd := scr.Update(specialKey(tea.KeyEnter))
	scr, _ = run(t, scr, cmd)

	if len(eng.submitted) != 1 || eng.submitted[0] != "a lightweight thread" {
		t.Fatalf("submitted = %q", eng.submitted)
	}
	qs := scr.(*QuizScreen)
	if qs.phase != phaseFeedback {
		t.Fatalf("phase = %d, want feedback", qs.phase)
	}
	if !strings.Contains(scr.View(100, 30), "Missing: runtime") {
		t.Error("expected missing keywords in feedback")
	}
}

func TestQuizScreen_ChoiceShortcutSubmits(t *testing.T) {
	eng := &fakeEngine{
		turn: choiceTurn(),
		result: &assessment.SubmitResult{
			Result:     evaluator.CheckChoice("defer", "go"),
			Transition: progression.Hold,
		},
	}
	scr := answering(t, eng)
	scr, cmd := scr.Update(keyPress('b'))
	scr, _ = run(t, scr, cmd)

	if len(eng.submitted) != 1 || eng.submitted[0] != "defer" {
		t.Fatalf("submitted = %q, want [defer]", eng.submitted)
	}
	qs := scr.(*QuizScreen)
	if qs.choice.CorrectIndex != 0 {
		t.Errorf("CorrectIndex = %d, want 0", qs.choice.CorrectIndex)
	}
	if !strings.Contains(scr.View(100, 30), "Not quite") {
		t.Error("expected incorrect feedback")
	}
}

func TestQuizScreen_FeedbackContinueFetchesNext(t *testing.T) {
	eng := &fakeEngine{
		turn:   choiceTurn(),
		result: &assessment.SubmitResult{Result: evaluator.CheckChoice("go", "go")},
	}
	scr := answering(t, eng)
	scr, cmd := scr.Update(keyPress('1'))
	scr, _ = run(t, scr, cmd)

	scr, cmd = scr.Update(keyPress(' '))
	if scr.(*QuizScreen).phase != phaseLoading {
		t.Fatal("expected loading after dismissing feedback")
	}
	scr, _ = run(t, scr, cmd)
	if scr.(*QuizScreen).phase != phaseAnswering {
		t.Error("expected next question to be shown")
	}
}

func TestQuizScreen_TerminalFinishesToSummary(t *testing.T) {
	eng := &fakeEngine{
		turn: choiceTurn(),
		result: &assessment.SubmitResult{
			Result:     evaluator.CheckChoice("defer", "go"),
			Transition: progression.FailOut,
			Terminal:   true,
			Status:     progression.StatusEndedEarly,
		},
	}
	scr := answering(t, eng)
	scr, cmd := scr.Update(keyPress('2'))
	scr, _ = run(t, scr, cmd)

	_, cmd = scr.Update(keyPress(' '))
	_, msgs := run(t, scr, cmd)
	if !eng.finished {
		t.Fatal("expected Finish to be called")
	}
	var replaced bool
	for _, m := range msgs {
		if r, ok := m.(router.ReplaceScreenMsg); ok {
			_, replaced = r.Screen.(*summary.SummaryScreen)
		}
	}
	if !replaced {
		t.Error("expected summary screen to replace the quiz")
	}
}

func TestQuizScreen_GenerationFailureShowsSummary(t *testing.T) {
	eng := &fakeEngine{turnErr: &assessment.GenerationUnavailableError{
		Attempts: assessment.MaxGenerationAttempts,
		Err:      errors.New("provider down"),
	}}
	scr := screen.Screen(New(eng, "a1", "Go"))
	_, msgs := run(t, scr, scr.Init())

	var replaced bool
	for _, m := range msgs {
		_, replaced = m.(router.ReplaceScreenMsg)
		if replaced {
			break
		}
	}
	if !replaced {
		t.Error("expected summary after generation failure")
	}
}

func TestQuizScreen_ExpiredSessionShowsError(t *testing.T) {
	eng := &fakeEngine{turnErr: &assessment.SessionExpiredError{AttemptID: "a1", Err: errors.New("gone")}}
	scr := screen.Screen(New(eng, "a1", "Go"))
	scr, _ = run(t, scr, scr.Init())

	if !strings.Contains(scr.View(100, 30), "expired") {
		t.Error("expected expiry error in view")
	}
	_, cmd := scr.Update(keyPress('x'))
	if cmd == nil {
		t.Error("expected quit on any key")
	}
}

func TestQuizScreen_QuitConfirm(t *testing.T) {
	eng := &fakeEngine{turn: descriptiveTurn()}
	scr := answering(t, eng)

	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	if !scr.(*QuizScreen).confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	scr, _ = scr.Update(keyPress('n'))
	if scr.(*QuizScreen).confirmQuit {
		t.Fatal("expected confirmation dismissed")
	}

	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	_, cmd := scr.Update(keyPress('y'))
	_, msgs := run(t, scr, cmd)
	if !eng.abandoned {
		t.Error("expected Abandon to be called")
	}
	if len(msgs) == 0 {
		t.Error("expected quit after abandon")
	}
}

func TestQuizScreen_KeyHints(t *testing.T) {
	scr := answering(t, &fakeEngine{turn: choiceTurn()})
	hints := scr.(*QuizScreen).KeyHints()
	if len(hints) != 4 {
		t.Errorf("choice KeyHints length = %d, want 4", len(hints))
	}
}

func TestQuizScreen_Status(t *testing.T) {
	scr := answering(t, &fakeEngine{turn: descriptiveTurn()})
	if got := scr.(*QuizScreen).Status(); !strings.Contains(got, "Understand") {
		t.Errorf("Status = %q", got)
	}
}
