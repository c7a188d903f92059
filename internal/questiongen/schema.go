package questiongen

import (
	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/llm"
)

// DescriptiveSchema is the response contract for free-text questions.
var DescriptiveSchema = &llm.Schema{
	Name:        "descriptive-question",
	Description: "A single open-ended question with the ordered concepts a good answer covers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question shown to the learner",
			},
			"topic": map[string]any{
				"type":        "string",
				"description": "The syllabus topic the question covers, in a few words",
			},
			"keywords": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"description": "Key concepts a correct answer mentions, most important first. Single words or short phrases.",
			},
		},
		"required":             []any{"question", "topic", "keywords"},
		"additionalProperties": false,
	},
}

// ChoiceSchema is the response contract for multiple-choice questions.
var ChoiceSchema = &llm.Schema{
	Name:        "choice-question",
	Description: "A single multiple-choice question with four options and one correct answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question shown to the learner",
			},
			"topic": map[string]any{
				"type":        "string",
				"description": "The syllabus topic the question covers, in a few words",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    evaluator.ChoiceOptions,
				"maxItems":    evaluator.ChoiceOptions,
				"description": "Exactly four distinct options prefixed A) to D)",
			},
			"correct_option": map[string]any{
				"type":        "string",
				"description": "The correct option, copied exactly from options",
			},
		},
		"required":             []any{"question", "topic", "options", "correct_option"},
		"additionalProperties": false,
	},
}

func schemaFor(kind evaluator.Kind) *llm.Schema {
	if kind == evaluator.KindChoice {
		return ChoiceSchema
	}
	return DescriptiveSchema
}
