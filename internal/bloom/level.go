package bloom

import (
	"fmt"
	"strings"
)

// Level is an ordinal position in Bloom's taxonomy, 0 (remember) through
// 5 (create).
type Level int

const (
	Remember Level = iota
	Understand
	Apply
	Analyze
	Evaluate
	Create
)

// MinLevel and MaxLevel bound the active levels. Any index outside
// [MinLevel, MaxLevel] is terminal.
const (
	MinLevel = Remember
	MaxLevel = Create
)

// Count is the number of levels in the taxonomy.
const Count = int(MaxLevel) + 1

var levelNames = [Count]string{
	"remember",
	"understand",
	"apply",
	"analyze",
	"evaluate",
	"create",
}

// Levels returns all levels in ascending order.
func Levels() []Level {
	out := make([]Level, Count)
	for i := range out {
		out[i] = Level(i)
	}
	return out
}

// Valid reports whether l is one of the six active levels.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// String returns the lowercase level name, or "level(N)" for out-of-range
// values.
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// Title returns the capitalized level name for display.
func (l Level) Title() string {
	s := l.String()
	if !l.Valid() {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Parse resolves a level name (case-insensitive) or a decimal index.
func Parse(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && Level(n).Valid() {
		return Level(n), nil
	}
	return 0, fmt.Errorf("unknown bloom level %q", s)
}

// Clamp forces an arbitrary index into [MinLevel, MaxLevel].
func Clamp(i int) Level {
	switch {
	case i < int(MinLevel):
		return MinLevel
	case i > int(MaxLevel):
		return MaxLevel
	}
	return Level(i)
}
