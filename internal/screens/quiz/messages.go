package quiz

import "github.com/bloomify/bloomify/internal/assessment"

// turnReadyMsg carries the next question, or the terminal turn.
type turnReadyMsg struct {
	Turn *assessment.Turn
	Err  error
}

// scoredMsg is sent when an answer has been scored.
type scoredMsg struct {
	Result *assessment.SubmitResult
	Err    error
}

// finishedMsg carries the summary of a terminal attempt.
type finishedMsg struct {
	Result *assessment.FinishResult
	Err    error
}

// abandonedMsg is sent once an abandoned attempt has been discarded.
type abandonedMsg struct{}
