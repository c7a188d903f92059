package questiongen

import (
	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/evaluator"
)

// keywordRange is the expected keyword count for a descriptive question.
type keywordRange struct {
	Min, Max int
}

var descriptiveKeywords = [bloom.Count]keywordRange{
	bloom.Remember:   {3, 4},
	bloom.Understand: {4, 5},
	bloom.Apply:      {5, 6},
	bloom.Analyze:    {5, 6},
	bloom.Evaluate:   {5, 7},
	bloom.Create:     {6, 8},
}

// KeywordRange returns the keyword count a descriptive question at level
// should carry.
func KeywordRange(level bloom.Level) (lo, hi int) {
	r := descriptiveKeywords[bloom.Clamp(int(level))]
	return r.Min, r.Max
}

var choiceInstructions = [bloom.Count]string{
	bloom.Remember:   "Ask the learner to recall a specific fact, term or definition stated in the material.",
	bloom.Understand: "Ask the learner to identify the correct explanation or interpretation of a concept from the material.",
	bloom.Apply:      "Present a short concrete scenario and ask which option correctly applies a concept from the material.",
	bloom.Analyze:    "Ask the learner to distinguish between related concepts or identify the relationship or cause behind an outcome.",
	bloom.Evaluate:   "Ask the learner to judge which approach, claim or solution is best justified and why.",
	bloom.Create:     "Ask the learner which design or plan correctly combines several concepts from the material into something new.",
}

var descriptiveInstructions = [bloom.Count]string{
	bloom.Remember:   "Ask the learner to state or define a fact or term from the material in their own words.",
	bloom.Understand: "Ask the learner to explain a concept from the material and why it works the way it does.",
	bloom.Apply:      "Ask the learner to describe how they would use a concept from the material to solve a concrete problem.",
	bloom.Analyze:    "Ask the learner to break a concept down, compare it with another, or explain how its parts relate.",
	bloom.Evaluate:   "Ask the learner to assess an approach or claim, weigh trade-offs, and justify a conclusion.",
	bloom.Create:     "Ask the learner to design a new solution, plan or artifact that combines several concepts from the material.",
}

// instruction returns the generation instruction for level and kind.
func instruction(level bloom.Level, kind evaluator.Kind) string {
	i := bloom.Clamp(int(level))
	if kind == evaluator.KindChoice {
		return choiceInstructions[i]
	}
	return descriptiveInstructions[i]
}
