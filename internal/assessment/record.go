package assessment

import (
	"strings"

	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/feedback"
	"github.com/bloomify/bloomify/internal/sessionstore"
	"github.com/bloomify/bloomify/internal/store"
)

// StoredFeedback maps a finished attempt onto its persisted form.
func StoredFeedback(sess *sessionstore.Session, rec feedback.Record, reason string) *store.QuizFeedback {
	fb := &store.QuizFeedback{
		LearnerID:         sess.LearnerID,
		Syllabus:          sess.SyllabusTitle,
		Kind:              string(sess.Kind),
		QuestionsPerLevel: sess.State.QuestionsPerLevel(),
		MaxLevelReached:   int(rec.MaxLevelReached),
		Tier:              string(rec.Tier),
		Message:           rec.Message,
		Reason:            reason,
		TotalAttempted:    rec.TotalAttempted,
		TotalCorrect:      rec.TotalCorrect,
		Accuracy:          rec.Accuracy,
		Results:           make([]store.QuestionResult, len(rec.History)),
	}
	for i, h := range rec.History {
		r := store.QuestionResult{
			Position:        i + 1,
			Level:           int(h.Level),
			Topic:           h.Topic,
			QuestionText:    h.Question.Text,
			StudentAnswer:   h.Response,
			IsCorrect:       h.Result.Correct,
			ScorePercentage: h.Result.Score,
		}
		if h.Question.Kind == evaluator.KindChoice {
			r.SelectedOption = strings.TrimSpace(h.Response)
			r.CorrectOption = h.Question.CorrectOption
		} else {
			r.ExpectedKeywords = h.Question.Keywords
			r.MatchedKeywords = h.Result.MatchedTokens()
		}
		fb.Results[i] = r
	}
	return fb
}
