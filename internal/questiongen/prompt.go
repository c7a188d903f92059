package questiongen

import (
	"fmt"
	"strings"

	"github.com/bloomify/bloomify/internal/evaluator"
)

const systemPrompt = `You are an instructor writing assessment questions from a syllabus, ordered by Bloom's taxonomy.

Rules:
- Generate exactly one question at the requested Bloom level, grounded in the syllabus material.
- The question must be self-contained and answerable from the material.
- Do not repeat or lightly reword any question from the "already asked" list.
- Prefer topics that are not in the "topics covered" list.
- For multiple choice: give exactly four distinct options prefixed "A) ", "B) ", "C) ", "D) ". Exactly one is correct and correct_option must repeat it character for character. Distractors should reflect plausible misconceptions.
- For descriptive questions: list the key concepts a good answer mentions, most important first. Use single words or short phrases the learner would naturally write, not full sentences.`

// variations rephrase the request on retries so a model that produced an
// unusable answer is nudged somewhere else.
var variations = []string{
	"",
	"Approach the material from a different angle than an obvious first question would.",
	"Pick a less prominent part of the material and keep the question short and concrete.",
}

func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	kind := "descriptive (free-text answer)"
	if input.Kind == evaluator.KindChoice {
		kind = "multiple choice"
	}
	fmt.Fprintf(&b, "Bloom level: %s\n", input.Level.Title())
	fmt.Fprintf(&b, "Question type: %s\n", kind)
	fmt.Fprintf(&b, "Instruction: %s\n", instruction(input.Level, input.Kind))
	if input.Kind != evaluator.KindChoice {
		lo, hi := KeywordRange(input.Level)
		fmt.Fprintf(&b, "Expected keywords: %d-%d\n", lo, hi)
	}
	if v := variations[input.Variation%len(variations)]; v != "" {
		fmt.Fprintf(&b, "Variation: %s\n", v)
	}

	if input.SyllabusTitle != "" {
		fmt.Fprintf(&b, "\nSyllabus: %s\n", input.SyllabusTitle)
	}
	b.WriteString("\nMaterial:\n")
	b.WriteString(truncateRunes(input.Syllabus, cfg.MaxSyllabusRunes))

	b.WriteString("\n\nAlready asked in this session:\n")
	b.WriteString(buildList(input.Asked, cfg.MaxPriorQuestions))

	b.WriteString("\n\nTopics covered:\n")
	b.WriteString(buildList(input.Topics, 0))

	return b.String()
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "\n[material truncated]"
}
