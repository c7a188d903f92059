package questiongen

import (
	"fmt"
	"unicode/utf8"

	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/textmatch"
)

// MaxQuestionRunes bounds the question text length.
const MaxQuestionRunes = 600

// StructuralValidator checks required fields, lengths, and the
// kind-specific signature rules.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(sig *evaluator.Signature, input GenerateInput) *ValidationError {
	if sig.Kind != input.Kind {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected a %s question, got %s", input.Kind, sig.Kind),
			Retryable: true,
		}
	}
	if utf8.RuneCountInString(sig.Text) > MaxQuestionRunes {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question exceeds %d characters", MaxQuestionRunes),
			Retryable: true,
		}
	}
	if err := sig.Validate(); err != nil {
		return &ValidationError{
			Validator: v.Name(),
			Message:   err.Error(),
			Retryable: true,
		}
	}
	return nil
}

// KeywordCountValidator rejects descriptive questions whose keyword list is
// far outside the range expected for the level. One keyword of drift in
// either direction is accepted.
type KeywordCountValidator struct{}

func (v *KeywordCountValidator) Name() string { return "keyword-count" }

func (v *KeywordCountValidator) Validate(sig *evaluator.Signature, input GenerateInput) *ValidationError {
	if sig.Kind != evaluator.KindDescriptive {
		return nil
	}
	lo, hi := KeywordRange(input.Level)
	if n := len(sig.Keywords); n < lo-1 || n > hi+1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("%d keywords for level %s, want %d-%d", n, input.Level, lo, hi),
			Retryable: true,
		}
	}
	return nil
}

// RepetitionValidator rejects a question already asked in this attempt.
// Texts are compared after normalization, so case and punctuation changes
// do not make a question new.
type RepetitionValidator struct{}

func (v *RepetitionValidator) Name() string { return "repetition" }

func (v *RepetitionValidator) Validate(sig *evaluator.Signature, input GenerateInput) *ValidationError {
	text := textmatch.NormalizeText(sig.Text)
	for _, asked := range input.Asked {
		if textmatch.NormalizeText(asked) == text {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "question was already asked",
				Retryable: true,
			}
		}
	}
	return nil
}
