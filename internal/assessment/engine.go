// Package assessment runs adaptive assessment attempts: it asks the question
// source for level-appropriate questions, scores answers, moves the learner
// between levels and persists the final feedback.
package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/feedback"
	"github.com/bloomify/bloomify/internal/llm"
	"github.com/bloomify/bloomify/internal/progression"
	"github.com/bloomify/bloomify/internal/questiongen"
	"github.com/bloomify/bloomify/internal/sessionstore"
	"github.com/bloomify/bloomify/internal/store"
)

const (
	// MaxGenerationAttempts bounds question-source calls per question.
	MaxGenerationAttempts = 3

	DefaultQuestionsPerLevel = 3
)

// FeedbackStore persists finished attempts. store.FeedbackRepo satisfies it.
type FeedbackStore interface {
	Save(ctx context.Context, fb *store.QuizFeedback) (string, error)
}

// Engine drives attempts. It keeps no per-attempt state of its own, so one
// Engine serves any number of concurrent attempts.
type Engine struct {
	source   questiongen.Generator
	sessions sessionstore.Store
	feedback FeedbackStore
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine wires an engine. feedback may be nil, in which case Finish
// reports a PersistenceError and still returns the feedback.
func NewEngine(source questiongen.Generator, sessions sessionstore.Store, feedback FeedbackStore, opts ...Option) *Engine {
	e := &Engine{
		source:   source,
		sessions: sessions,
		feedback: feedback,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartInput describes a new attempt.
type StartInput struct {
	LearnerID         string
	SyllabusTitle     string
	Syllabus          string
	Kind              evaluator.Kind
	QuestionsPerLevel int
}

// Start opens an attempt at the first level and returns its id.
func (e *Engine) Start(ctx context.Context, in StartInput) (string, error) {
	if in.Kind == "" {
		in.Kind = evaluator.KindDescriptive
	}
	if _, err := evaluator.ParseKind(string(in.Kind)); err != nil {
		return "", err
	}
	if in.QuestionsPerLevel == 0 {
		in.QuestionsPerLevel = DefaultQuestionsPerLevel
	}
	st, err := progression.New(in.QuestionsPerLevel)
	if err != nil {
		return "", err
	}

	sess := &sessionstore.Session{
		ID:            uuid.NewString(),
		LearnerID:     in.LearnerID,
		SyllabusTitle: in.SyllabusTitle,
		Syllabus:      in.Syllabus,
		Kind:          in.Kind,
		State:         st,
		StartedAt:     e.now().UTC(),
	}
	if err := e.sessions.Save(ctx, sess); err != nil {
		return "", fmt.Errorf("start attempt: %w", err)
	}
	e.log.Info("attempt started",
		zap.String("attempt_id", sess.ID),
		zap.String("learner", in.LearnerID),
		zap.String("kind", string(in.Kind)),
		zap.Int("questions_per_level", in.QuestionsPerLevel))
	return sess.ID, nil
}

// Turn is the next step of an attempt: a question to answer, or the
// terminal outcome.
type Turn struct {
	AttemptID string
	Question  *evaluator.Signature
	Level     bloom.Level

	// Position is the 1-based index of the question within its level.
	Position          int
	QuestionsPerLevel int

	// Number is the 1-based index of the question within the attempt.
	Number int

	Terminal bool
	Status   progression.Status
}

// NextQuestion returns the pending question, generating one if needed.
// A terminal attempt yields a Turn with Terminal set. When every generation
// try fails the session is discarded and a GenerationUnavailableError is
// returned.
func (e *Engine) NextQuestion(ctx context.Context, attemptID string) (*Turn, error) {
	sess, err := e.load(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if sess.State.Terminal() {
		return &Turn{AttemptID: attemptID, Terminal: true, Status: sess.State.Status()}, nil
	}
	if sess.Pending != nil {
		return turnFor(sess), nil
	}

	level, _ := sess.State.Level()
	input := questiongen.GenerateInput{
		Level:         level,
		Kind:          sess.Kind,
		SyllabusTitle: sess.SyllabusTitle,
		Syllabus:      sess.Syllabus,
		Asked:         sess.State.Asked(),
		Topics:        sess.State.Topics(),
	}

	sig, attempts, err := e.generate(ctx, attemptID, input)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, e.abort(ctx, sess, attempts, err)
	}

	sess.Pending = sig
	sess.State = sess.State.WithIssued(sig.Text, sig.Topic)
	if err := e.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save attempt %s: %w", attemptID, err)
	}
	return turnFor(sess), nil
}

// generate calls the source up to MaxGenerationAttempts times, varying the
// input on each retry.
func (e *Engine) generate(ctx context.Context, attemptID string, input questiongen.GenerateInput) (*evaluator.Signature, int, error) {
	var lastErr error
	attempt := 0
	for attempt < MaxGenerationAttempts {
		input.Variation = attempt
		attempt++

		sig, err := e.source.Generate(ctx, input)
		if err == nil {
			return sig, attempt, nil
		}
		if ctx.Err() != nil {
			return nil, attempt, ctx.Err()
		}

		lastErr = classify(attempt, err)
		e.log.Warn("question generation failed",
			zap.String("attempt_id", attemptID),
			zap.Int("try", attempt),
			zap.String("level", input.Level.String()),
			zap.Error(lastErr))

		var verr *questiongen.ValidationError
		if errors.As(err, &verr) && !verr.Retryable {
			break
		}
	}
	return nil, attempt, lastErr
}

// classify separates unusable output from an unreachable source.
func classify(attempt int, err error) error {
	var (
		verr    *questiongen.ValidationError
		syntax  *json.SyntaxError
		typeErr *json.UnmarshalTypeError
	)
	if errors.As(err, &verr) || llm.IsInvalidResponse(err) || errors.As(err, &syntax) || errors.As(err, &typeErr) {
		return &GenerationParseError{Attempt: attempt, Err: err}
	}
	return err
}

func (e *Engine) abort(ctx context.Context, sess *sessionstore.Session, attempts int, cause error) error {
	aborted := sess.State.Abort()
	e.log.Error("attempt aborted, no question could be generated",
		zap.String("attempt_id", sess.ID),
		zap.Int("tries", attempts),
		zap.Int("answered", len(aborted.History())),
		zap.Int("max_level_reached", int(aborted.MaxLevelReached())),
		zap.Error(cause))

	if err := e.sessions.Delete(ctx, sess.ID); err != nil {
		e.log.Warn("discard aborted session", zap.String("attempt_id", sess.ID), zap.Error(err))
	}
	return &GenerationUnavailableError{AttemptID: sess.ID, Attempts: attempts, State: aborted, Err: cause}
}

// SubmitResult is the outcome of one answer.
type SubmitResult struct {
	Result evaluator.Result

	// Level is the level the question was asked at.
	Level      bloom.Level
	Transition progression.Transition

	// NextLevel is meaningful only while the attempt is active.
	NextLevel bloom.Level
	Terminal  bool
	Status    progression.Status

	// EmptyResponse marks a blank answer. It is scored as incorrect and the
	// attempt continues normally.
	EmptyResponse bool

	// State is the progression after the answer, for running totals.
	State progression.State
}

// Submit scores response against the pending question and applies the
// level transition.
func (e *Engine) Submit(ctx context.Context, attemptID, response string) (*SubmitResult, error) {
	sess, err := e.load(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if sess.State.Terminal() {
		return nil, ErrAttemptFinished
	}
	if sess.Pending == nil {
		return nil, ErrNoPendingQuestion
	}

	q := *sess.Pending
	level, _ := sess.State.Level()
	result := evaluator.Evaluate(response, q)
	next, tr, err := sess.State.Apply(progression.Record{
		Question: q,
		Response: response,
		Result:   result,
		Topic:    q.Topic,
	})
	if err != nil {
		return nil, err
	}

	sess.State = next
	sess.Pending = nil
	if err := e.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save attempt %s: %w", attemptID, err)
	}

	e.log.Debug("answer scored",
		zap.String("attempt_id", attemptID),
		zap.String("level", level.String()),
		zap.Float64("score", result.Score),
		zap.Bool("correct", result.Correct),
		zap.Stringer("transition", tr))

	out := &SubmitResult{
		Result:        result,
		Level:         level,
		Transition:    tr,
		Terminal:      next.Terminal(),
		Status:        next.Status(),
		EmptyResponse: strings.TrimSpace(response) == "",
		State:         next,
	}
	if l, ok := next.Level(); ok {
		out.NextLevel = l
	}
	return out, nil
}

// FinishResult is the summary of a terminal attempt.
type FinishResult struct {
	Feedback feedback.Record
	Reason   string

	// RecordID is empty when PersistErr is set.
	RecordID   string
	PersistErr error
}

// Finish aggregates a terminal attempt, persists it and discards the
// session. A failed write does not fail Finish: the feedback is returned
// with PersistErr set.
func (e *Engine) Finish(ctx context.Context, attemptID string) (*FinishResult, error) {
	sess, err := e.load(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if !sess.State.Terminal() {
		return nil, ErrAttemptActive
	}

	rec := feedback.FromState(sess.State)
	out := &FinishResult{Feedback: rec, Reason: sess.State.Status().Reason()}

	if e.feedback == nil {
		out.PersistErr = &PersistenceError{Err: ErrNoFeedbackStore}
	} else {
		fb := StoredFeedback(sess, rec, out.Reason)
		id, err := e.feedback.Save(ctx, fb)
		if err != nil {
			out.PersistErr = &PersistenceError{Err: err}
			e.log.Warn("feedback not persisted, returning in-memory record",
				zap.String("attempt_id", attemptID), zap.Error(err))
		} else {
			out.RecordID = id
		}
	}

	if err := e.sessions.Delete(ctx, attemptID); err != nil {
		e.log.Warn("discard finished session", zap.String("attempt_id", attemptID), zap.Error(err))
	}
	e.log.Info("attempt finished",
		zap.String("attempt_id", attemptID),
		zap.String("tier", string(rec.Tier)),
		zap.Int("max_level_reached", int(rec.MaxLevelReached)),
		zap.Float64("accuracy", rec.Accuracy),
		zap.String("record_id", out.RecordID))
	return out, nil
}

// Abandon discards an attempt without recording feedback.
func (e *Engine) Abandon(ctx context.Context, attemptID string) error {
	return e.sessions.Delete(ctx, attemptID)
}

func (e *Engine) load(ctx context.Context, attemptID string) (*sessionstore.Session, error) {
	sess, err := e.sessions.Load(ctx, attemptID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) || errors.Is(err, sessionstore.ErrIncompatible) {
			return nil, &SessionExpiredError{AttemptID: attemptID, Err: err}
		}
		return nil, fmt.Errorf("load attempt %s: %w", attemptID, err)
	}
	return sess, nil
}

func turnFor(sess *sessionstore.Session) *Turn {
	level, _ := sess.State.Level()
	return &Turn{
		AttemptID:         sess.ID,
		Question:          sess.Pending,
		Level:             level,
		Position:          sess.State.Answered() + 1,
		QuestionsPerLevel: sess.State.QuestionsPerLevel(),
		Number:            len(sess.State.History()) + 1,
		Status:            sess.State.Status(),
	}
}
