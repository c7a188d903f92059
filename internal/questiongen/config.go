package questiongen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order; the first failure stops the pipeline.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// MaxPriorQuestions caps how many asked questions the prompt lists.
	MaxPriorQuestions int

	// MaxSyllabusRunes truncates long source material in the prompt.
	MaxSyllabusRunes int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&KeywordCountValidator{},
			&RepetitionValidator{},
		},
		MaxTokens:         768,
		Temperature:       0.7,
		MaxPriorQuestions: 20,
		MaxSyllabusRunes:  12000,
	}
}
