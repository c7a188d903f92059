package quiz

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/bloomify/bloomify/internal/assessment"
	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/feedback"
	"github.com/bloomify/bloomify/internal/router"
	"github.com/bloomify/bloomify/internal/screen"
	"github.com/bloomify/bloomify/internal/screens/summary"
	"github.com/bloomify/bloomify/internal/ui/components"
	"github.com/bloomify/bloomify/internal/ui/layout"
)

// Engine is the slice of the assessment engine the quiz drives.
type Engine interface {
	NextQuestion(ctx context.Context, attemptID string) (*assessment.Turn, error)
	Submit(ctx context.Context, attemptID, response string) (*assessment.SubmitResult, error)
	Finish(ctx context.Context, attemptID string) (*assessment.FinishResult, error)
	Abandon(ctx context.Context, attemptID string) error
}

var _ Engine = (*assessment.Engine)(nil)

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseScoring
	phaseFeedback
	phaseFinishing
	phaseFailed
)

// QuizScreen runs one attempt: it asks, scores and explains each question
// and hands over to the summary when the attempt ends.
type QuizScreen struct {
	engine    Engine
	attemptID string
	title     string

	phase       phase
	confirmQuit bool
	turn        *assessment.Turn
	level       bloom.Level
	input       components.TextInput
	choice      components.MultiChoice
	result      *assessment.SubmitResult
	spinner     spinner.Model

	answered int
	correct  int
	errMsg   string
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
)

// New creates a quiz screen for a started attempt.
func New(engine Engine, attemptID, syllabusTitle string) *QuizScreen {
	return &QuizScreen{
		engine:    engine,
		attemptID: attemptID,
		title:     syllabusTitle,
		level:     bloom.MinLevel,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.fetchTurn(), s.spinner.Tick)
}

func (s *QuizScreen) Title() string {
	if s.title == "" {
		return "Quiz"
	}
	return s.title
}

func (s *QuizScreen) Status() string {
	if s.phase == phaseFailed {
		return ""
	}
	return fmt.Sprintf("%s   ✓ %d/%d", s.level.Title(), s.correct, s.answered)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.phase {
	case phaseAnswering:
		if s.turn != nil && s.turn.Question.Kind == evaluator.KindChoice {
			return []layout.KeyHint{
				{Key: "↑↓", Description: "Choose"},
				{Key: "A-D", Description: "Answer"},
				{Key: "Enter", Description: "Submit"},
				{Key: "Esc", Description: "Quit"},
			}
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case phaseFailed:
		return []layout.KeyHint{{Key: "any key", Description: "Exit"}}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (s *QuizScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	switch s.phase {
	case phaseFailed:
		return renderError(width, s.errMsg)
	case phaseLoading:
		return s.renderLoading(width, fmt.Sprintf("Preparing a %s question...", s.level))
	case phaseScoring:
		return s.renderLoading(width, "Scoring your answer...")
	case phaseFinishing:
		return s.renderLoading(width, "Summarizing your attempt...")
	case phaseFeedback:
		return s.renderFeedback(width)
	}
	return s.renderQuestion(width)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnReadyMsg:
		return s.handleTurn(msg)
	case scoredMsg:
		return s.handleScored(msg)
	case finishedMsg:
		return s.handleFinished(msg)
	case abandonedMsg:
		return s, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAnswering && !s.confirmQuit && s.turn.Question.Kind != evaluator.KindChoice {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) fetchTurn() tea.Cmd {
	engine, id := s.engine, s.attemptID
	return func() tea.Msg {
		turn, err := engine.NextQuestion(context.Background(), id)
		return turnReadyMsg{Turn: turn, Err: err}
	}
}

func (s *QuizScreen) submit(response string) tea.Cmd {
	engine, id := s.engine, s.attemptID
	return func() tea.Msg {
		res, err := engine.Submit(context.Background(), id, response)
		return scoredMsg{Result: res, Err: err}
	}
}

func (s *QuizScreen) finish() tea.Cmd {
	engine, id := s.engine, s.attemptID
	return func() tea.Msg {
		res, err := engine.Finish(context.Background(), id)
		return finishedMsg{Result: res, Err: err}
	}
}

func (s *QuizScreen) abandon() tea.Cmd {
	engine, id := s.engine, s.attemptID
	return func() tea.Msg {
		_ = engine.Abandon(context.Background(), id)
		return abandonedMsg{}
	}
}

func (s *QuizScreen) handleTurn(msg turnReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		var unavailable *assessment.GenerationUnavailableError
		if errors.As(msg.Err, &unavailable) {
			res := &assessment.FinishResult{
				Feedback: feedback.FromState(unavailable.State),
				Reason:   assessment.ReasonGenerationFailed,
			}
			return s, replaceWithSummary(res)
		}
		return s.fail(msg.Err)
	}

	if msg.Turn.Terminal {
		s.phase = phaseFinishing
		return s, tea.Batch(s.finish(), s.spinner.Tick)
	}

	s.turn = msg.Turn
	s.level = msg.Turn.Level
	s.result = nil
	s.phase = phaseAnswering

	if msg.Turn.Question.Kind == evaluator.KindChoice {
		s.choice = components.NewMultiChoice(msg.Turn.Question.Options)
		return s, nil
	}
	s.input = components.NewTextInput("Type your answer...", 60)
	return s, s.input.Init()
}

func (s *QuizScreen) handleScored(msg scoredMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		return s.fail(msg.Err)
	}

	res := msg.Result
	s.result = res
	s.answered = res.State.Answered()
	s.correct = res.State.CorrectCount()
	if !res.Terminal {
		s.level = res.NextLevel
	}
	if s.turn.Question.Kind == evaluator.KindChoice {
		s.choice.Reveal(s.turn.Question.CorrectOption)
	} else {
		s.input.Submit(res.Result.Correct)
	}
	s.phase = phaseFeedback
	return s, nil
}

func (s *QuizScreen) handleFinished(msg finishedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		return s.fail(msg.Err)
	}
	return s, replaceWithSummary(msg.Result)
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.phase == phaseFailed {
		return s, tea.Quit
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.abandon()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.phase {
	case phaseFeedback:
		if s.result != nil && s.result.Terminal {
			s.phase = phaseFinishing
			return s, tea.Batch(s.finish(), s.spinner.Tick)
		}
		s.phase = phaseLoading
		return s, tea.Batch(s.fetchTurn(), s.spinner.Tick)

	case phaseAnswering:
		if key == "esc" {
			s.confirmQuit = true
			return s, nil
		}
		if s.turn.Question.Kind == evaluator.KindChoice {
			var cmd tea.Cmd
			s.choice, cmd = s.choice.Update(msg)
			if chosen, ok := s.choice.Chosen(); ok {
				s.phase = phaseScoring
				return s, tea.Batch(cmd, s.submit(chosen), s.spinner.Tick)
			}
			return s, cmd
		}
		if key == "enter" {
			s.phase = phaseScoring
			return s, tea.Batch(s.submit(s.input.Value()), s.spinner.Tick)
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *QuizScreen) fail(err error) (screen.Screen, tea.Cmd) {
	s.phase = phaseFailed
	s.errMsg = err.Error()
	return s, nil
}

func replaceWithSummary(res *assessment.FinishResult) tea.Cmd {
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(res)}
	}
}
