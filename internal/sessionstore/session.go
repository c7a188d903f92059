// Package sessionstore keeps in-progress assessment attempts between
// question and answer round-trips.
package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/progression"
)

var (
	// ErrNotFound means no session exists for the id, or it expired.
	ErrNotFound = errors.New("session not found")

	// ErrIncompatible means a stored session could not be decoded by this
	// version of the codec.
	ErrIncompatible = errors.New("incompatible session snapshot")
)

// Session is everything needed to resume one attempt.
type Session struct {
	ID            string               `json:"id"`
	LearnerID     string               `json:"learner_id"`
	SyllabusTitle string               `json:"syllabus_title"`
	Syllabus      string               `json:"syllabus"`
	Kind          evaluator.Kind       `json:"kind"`
	State         progression.State    `json:"state"`
	Pending       *evaluator.Signature `json:"pending,omitempty"`
	StartedAt     time.Time            `json:"started_at"`
}

// Store persists sessions by id. Callers load, mutate and save one session
// from a single goroutine at a time.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
