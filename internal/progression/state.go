// Package progression holds the adaptive level state machine. State is an
// immutable value; Apply returns the next state and never mutates its
// receiver.
package progression

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/evaluator"
)

// Terminal sentinels for the level index.
const (
	BelowZero = -1
	AboveMax  = int(bloom.MaxLevel) + 1
)

// ErrTerminal is returned when a transition is applied to a finished state.
var ErrTerminal = errors.New("progression: state is terminal")

// Record is one answered question.
type Record struct {
	Level    bloom.Level         `json:"level"`
	Question evaluator.Signature `json:"question"`
	Response string              `json:"response"`
	Result   evaluator.Result    `json:"result"`
	Topic    string              `json:"topic,omitempty"`
}

// State is the full per-attempt progression state.
type State struct {
	questionsPerLevel   int
	levelIndex          int
	consecutiveFailures int
	maxLevelReached     int
	answered            int
	correct             int
	asked               []string
	topics              []string
	history             []Record
}

// New returns the initial state at level 0.
func New(questionsPerLevel int) (State, error) {
	if questionsPerLevel < 1 {
		return State{}, fmt.Errorf("questions per level must be positive, got %d", questionsPerLevel)
	}
	return State{questionsPerLevel: questionsPerLevel}, nil
}

func (s State) QuestionsPerLevel() int   { return s.questionsPerLevel }
func (s State) RequiredCorrect() int     { return RequiredCorrect(s.questionsPerLevel) }
func (s State) LevelIndex() int          { return s.levelIndex }
func (s State) ConsecutiveFailures() int { return s.consecutiveFailures }
func (s State) Answered() int            { return s.answered }
func (s State) CorrectCount() int        { return s.correct }

// MaxLevelReached is the highest active level the learner has entered.
func (s State) MaxLevelReached() bloom.Level { return bloom.Level(s.maxLevelReached) }

// Level returns the current level, or false when the state is terminal.
func (s State) Level() (bloom.Level, bool) {
	if s.Terminal() {
		return 0, false
	}
	return bloom.Level(s.levelIndex), true
}

// Asked returns the question texts issued so far.
func (s State) Asked() []string { return slices.Clone(s.asked) }

// Topics returns the topics covered so far, in issue order.
func (s State) Topics() []string { return slices.Clone(s.topics) }

// History returns the answered questions in order.
func (s State) History() []Record { return slices.Clone(s.history) }

// Terminal reports whether the level index is outside the active range.
func (s State) Terminal() bool {
	return s.levelIndex < int(bloom.MinLevel) || s.levelIndex > int(bloom.MaxLevel)
}

// Status classifies the state.
func (s State) Status() Status {
	switch {
	case s.levelIndex < int(bloom.MinLevel):
		return StatusEndedEarly
	case s.levelIndex > int(bloom.MaxLevel):
		return StatusMastered
	}
	return StatusActive
}

// WithIssued records a question handed to the learner so later questions
// can avoid repeating it.
func (s State) WithIssued(question, topic string) State {
	next := s
	next.asked = appendCopy(s.asked, question)
	if topic != "" && !slices.Contains(s.topics, topic) {
		next.topics = appendCopy(s.topics, topic)
	}
	return next
}

// Abort forces the state into the below-zero terminal without touching
// history or the level high-water mark.
func (s State) Abort() State {
	next := s
	next.levelIndex = BelowZero
	next.answered, next.correct = 0, 0
	return next
}

// Apply records one answered question and computes the resulting
// transition.
func (s State) Apply(rec Record) (State, Transition, error) {
	if s.Terminal() {
		return s, Hold, ErrTerminal
	}
	if s.questionsPerLevel < 1 {
		return s, Hold, fmt.Errorf("progression: state not initialized")
	}

	rec.Level = bloom.Level(s.levelIndex)
	next := s
	next.history = appendCopy(s.history, rec)
	next.answered++
	if rec.Result.Correct {
		next.correct++
	}

	if next.answered < next.questionsPerLevel {
		return next, Hold, nil
	}

	var tr Transition
	if next.correct >= RequiredCorrect(next.questionsPerLevel) {
		next.levelIndex++
		next.consecutiveFailures = 0
		next.maxLevelReached = max(next.maxLevelReached, min(next.levelIndex, int(bloom.MaxLevel)))
		tr = Advance
		if next.levelIndex > int(bloom.MaxLevel) {
			next.levelIndex = AboveMax
			tr = Master
		}
	} else {
		next.consecutiveFailures++
		switch {
		case s.levelIndex == int(bloom.MinLevel), next.consecutiveFailures >= 2:
			next.levelIndex = BelowZero
			tr = FailOut
		default:
			next.levelIndex--
			tr = Regress
		}
	}
	next.answered, next.correct = 0, 0
	return next, tr, nil
}

func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

type stateJSON struct {
	QuestionsPerLevel   int      `json:"questions_per_level"`
	LevelIndex          int      `json:"level_index"`
	ConsecutiveFailures int      `json:"consecutive_failures"`
	MaxLevelReached     int      `json:"max_level_reached"`
	Answered            int      `json:"questions_answered"`
	Correct             int      `json:"correct_count"`
	Asked               []string `json:"asked_questions"`
	Topics              []string `json:"topics"`
	History             []Record `json:"history"`
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		QuestionsPerLevel:   s.questionsPerLevel,
		LevelIndex:          s.levelIndex,
		ConsecutiveFailures: s.consecutiveFailures,
		MaxLevelReached:     s.maxLevelReached,
		Answered:            s.answered,
		Correct:             s.correct,
		Asked:               s.asked,
		Topics:              s.topics,
		History:             s.history,
	})
}

// UnmarshalJSON restores a state and rejects values that break the
// state invariants.
func (s *State) UnmarshalJSON(data []byte) error {
	var w stateJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.QuestionsPerLevel < 1:
		return fmt.Errorf("progression: invalid questions_per_level %d", w.QuestionsPerLevel)
	case w.LevelIndex < BelowZero || w.LevelIndex > AboveMax:
		return fmt.Errorf("progression: invalid level_index %d", w.LevelIndex)
	case w.MaxLevelReached < 0 || w.MaxLevelReached > int(bloom.MaxLevel):
		return fmt.Errorf("progression: invalid max_level_reached %d", w.MaxLevelReached)
	case w.Answered < 0 || w.Answered >= w.QuestionsPerLevel || w.Correct < 0 || w.Correct > w.Answered:
		return fmt.Errorf("progression: invalid level record %d/%d", w.Correct, w.Answered)
	case w.ConsecutiveFailures < 0:
		return fmt.Errorf("progression: invalid consecutive_failures %d", w.ConsecutiveFailures)
	}
	*s = State{
		questionsPerLevel:   w.QuestionsPerLevel,
		levelIndex:          w.LevelIndex,
		consecutiveFailures: w.ConsecutiveFailures,
		maxLevelReached:     w.MaxLevelReached,
		answered:            w.Answered,
		correct:             w.Correct,
		asked:               w.Asked,
		topics:              w.Topics,
		history:             w.History,
	}
	return nil
}
