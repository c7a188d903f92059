package progression

// Transition is the decision taken after an answer.
type Transition int

const (
	// Hold keeps the learner on the current level.
	Hold Transition = iota
	Advance
	Regress
	// FailOut ends the attempt below level 0.
	FailOut
	// Master ends the attempt above the top level.
	Master
)

func (t Transition) String() string {
	switch t {
	case Hold:
		return "hold"
	case Advance:
		return "advance"
	case Regress:
		return "regress"
	case FailOut:
		return "fail-out"
	case Master:
		return "master"
	}
	return "unknown"
}

// Status is the coarse state of an attempt.
type Status int

const (
	StatusActive Status = iota
	StatusEndedEarly
	StatusMastered
)

// Reason is the learner-facing explanation for a terminal status.
func (s Status) Reason() string {
	switch s {
	case StatusMastered:
		return "Congratulations! You mastered all levels."
	case StatusEndedEarly:
		return "Quiz ended."
	}
	return ""
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusEndedEarly:
		return "ended-early"
	case StatusMastered:
		return "mastered"
	}
	return "unknown"
}

// requiredCorrect maps common questions-per-level values to the number of
// correct answers needed to pass a level.
var requiredCorrect = map[int]int{
	3: 2,
	6: 4,
	8: 6,
}

// RequiredCorrect returns the pass threshold for a level of n questions.
// Values outside the table require a strict majority.
func RequiredCorrect(n int) int {
	if r, ok := requiredCorrect[n]; ok {
		return r
	}
	return n/2 + 1
}
