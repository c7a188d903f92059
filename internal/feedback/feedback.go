// Package feedback turns a finished attempt into its summary verdict.
package feedback

import (
	"slices"

	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/progression"
)

// Tier is the coarse verdict derived from the highest level reached.
type Tier string

const (
	TierBasic        Tier = "basic"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
	TierExcellent    Tier = "excellent"
)

type tierEntry struct {
	tier    Tier
	message string
}

// tiers is indexed by max level reached.
var tiers = [bloom.Count]tierEntry{
	{TierBasic, "You need to work on the fundamentals. Focus on understanding basic concepts and definitions. Review the syllabus thoroughly and practice more foundational questions."},
	{TierBasic, "Basic knowledge is there but still work on advanced concepts. You understand the fundamentals but need to practice applying them in different scenarios."},
	{TierIntermediate, "Intermediate knowledge achieved! Try building projects and practical applications. You have a good grasp of concepts and can apply them effectively."},
	{TierIntermediate, "Good intermediate knowledge! You can analyze concepts well. Consider working on more complex problems and real-world applications to advance further."},
	{TierAdvanced, "Really good knowledge! You have excellent analytical and evaluation skills. To master the highest level, go deeper into the concepts and explore advanced applications."},
	{TierExcellent, "Excellent level knowledge! Keep it up! You have mastered all Bloom's taxonomy levels and can create and innovate with the concepts. Well done!"},
}

// TierFor returns the tier and canonical message for a max level. Out of
// range values are clamped.
func TierFor(maxLevel int) (Tier, string) {
	e := tiers[bloom.Clamp(maxLevel)]
	return e.tier, e.message
}

// Record is the immutable summary of a finished attempt.
type Record struct {
	MaxLevelReached bloom.Level          `json:"max_level_reached"`
	Tier            Tier                 `json:"feedback_tier"`
	Message         string               `json:"feedback_message"`
	TotalAttempted  int                  `json:"total_attempted"`
	TotalCorrect    int                  `json:"total_correct"`
	Accuracy        float64              `json:"accuracy_percentage"`
	Breakdown       []LevelSummary       `json:"breakdown"`
	History         []progression.Record `json:"history"`
}

// LevelSummary is the per-level slice of a record.
type LevelSummary struct {
	Level     bloom.Level `json:"level"`
	Attempted int         `json:"attempted"`
	Correct   int         `json:"correct"`
	Accuracy  float64     `json:"accuracy"`
}

// Verdict grades a level's accuracy for display.
func (l LevelSummary) Verdict() string {
	switch {
	case l.Accuracy >= 80:
		return "excellent"
	case l.Accuracy >= 60:
		return "good"
	}
	return "needs improvement"
}

// Aggregate builds the feedback record. history is copied, never retained.
func Aggregate(maxLevel int, history []progression.Record) Record {
	tier, msg := TierFor(maxLevel)
	rec := Record{
		MaxLevelReached: bloom.Clamp(maxLevel),
		Tier:            tier,
		Message:         msg,
		TotalAttempted:  len(history),
		History:         slices.Clone(history),
	}

	var perLevel [bloom.Count]LevelSummary
	for _, h := range history {
		lvl := bloom.Clamp(int(h.Level))
		perLevel[lvl].Attempted++
		if h.Result.Correct {
			rec.TotalCorrect++
			perLevel[lvl].Correct++
		}
	}
	rec.Accuracy = percent(rec.TotalCorrect, rec.TotalAttempted)

	for i, ls := range perLevel {
		if ls.Attempted == 0 {
			continue
		}
		ls.Level = bloom.Level(i)
		ls.Accuracy = percent(ls.Correct, ls.Attempted)
		rec.Breakdown = append(rec.Breakdown, ls)
	}
	return rec
}

// FromState aggregates a terminal progression state.
func FromState(s progression.State) Record {
	return Aggregate(int(s.MaxLevelReached()), s.History())
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return 100 * float64(n) / float64(d)
}
