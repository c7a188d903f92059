// Package questiongen produces level-appropriate questions for an
// assessment attempt, either from a language model or a prepared bank.
package questiongen

import (
	"context"

	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/evaluator"
)

// Generator produces one question for the given input context.
// Returned signatures have already passed every configured validator.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (*evaluator.Signature, error)
}

// GenerateInput holds all context needed to generate a question.
type GenerateInput struct {
	Level bloom.Level
	Kind  evaluator.Kind

	// SyllabusTitle and Syllabus are the source material.
	SyllabusTitle string
	Syllabus      string

	// Asked holds the text of questions already issued in this attempt.
	Asked []string

	// Topics holds topics already covered in this attempt.
	Topics []string

	// Variation is the zero-based generation attempt for this question.
	// Generators use it to vary their output after a failed attempt.
	Variation int
}
