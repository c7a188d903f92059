package questiongen

import (
	"context"
	"errors"
	"fmt"

	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/syllabus"
)

// ErrBankExhausted is returned when the bank holds no unused question for
// the requested level and kind.
var ErrBankExhausted = errors.New("question bank exhausted")

// BankGenerator serves prepared questions from a syllabus bank. It needs no
// model and is deterministic, which makes it the offline source.
type BankGenerator struct {
	syllabus   *syllabus.Syllabus
	validators []Validator
}

func NewBank(s *syllabus.Syllabus) *BankGenerator {
	return &BankGenerator{
		syllabus:   s,
		validators: []Validator{&StructuralValidator{}, &RepetitionValidator{}},
	}
}

// Generate returns the first unused bank question for the level, starting
// the scan at the variation offset.
func (g *BankGenerator) Generate(ctx context.Context, input GenerateInput) (*evaluator.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := g.syllabus.Questions(input.Level, input.Kind)
	for i := range candidates {
		sig := candidates[(i+input.Variation)%len(candidates)]
		if runValidators(g.validators, &sig, input) == nil {
			return &sig, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", input.Level, input.Kind, ErrBankExhausted)
}
