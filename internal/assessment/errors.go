package assessment

import (
	"errors"
	"fmt"

	"github.com/bloomify/bloomify/internal/progression"
)

var (
	// ErrAttemptFinished is returned when answering a terminal attempt.
	ErrAttemptFinished = errors.New("attempt is finished")

	// ErrAttemptActive is returned when finishing an attempt that can still
	// issue questions.
	ErrAttemptActive = errors.New("attempt is still in progress")

	// ErrNoPendingQuestion is returned by Submit before NextQuestion.
	ErrNoPendingQuestion = errors.New("no question is awaiting an answer")

	// ErrNoFeedbackStore is carried by PersistenceError when the engine has
	// nowhere to write feedback.
	ErrNoFeedbackStore = errors.New("no feedback store configured")
)

// ReasonGenerationFailed is shown when an attempt is aborted because no
// question could be produced.
const ReasonGenerationFailed = "Could not generate a question."

// GenerationParseError means the question source answered, but not with a
// usable question.
type GenerationParseError struct {
	Attempt int
	Err     error
}

func (e *GenerationParseError) Error() string {
	return fmt.Sprintf("generation attempt %d returned an unusable question: %v", e.Attempt, e.Err)
}

func (e *GenerationParseError) Unwrap() error { return e.Err }

// GenerationUnavailableError ends an attempt after every generation try
// failed. State is the aborted state with its history intact.
type GenerationUnavailableError struct {
	AttemptID string
	Attempts  int
	State     progression.State
	Err       error
}

func (e *GenerationUnavailableError) Error() string {
	return fmt.Sprintf("could not generate a question after %d attempts, please try again: %v", e.Attempts, e.Err)
}

func (e *GenerationUnavailableError) Unwrap() error { return e.Err }

// SessionExpiredError means the attempt's session is gone or unreadable.
// The learner has to start over from the first level.
type SessionExpiredError struct {
	AttemptID string
	Err       error
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session %s expired, start a new attempt: %v", e.AttemptID, e.Err)
}

func (e *SessionExpiredError) Unwrap() error { return e.Err }

// PersistenceError reports a failed feedback write. The in-memory feedback
// is still returned alongside it.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("feedback not saved: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
