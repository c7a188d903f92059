package store

import (
	"context"
	"errors"
	"slices"
	"time"
)

// ErrNotFound is returned by single-record lookups that match nothing.
var ErrNotFound = errors.New("store: record not found")

// QueryOpts filters and pages list queries. Zero values disable a filter.
type QueryOpts struct {
	Limit     int
	After     int64 // sequence > After
	Before    int64 // sequence < Before
	From      time.Time
	To        time.Time
	LearnerID string
	Purpose   string
}

// QuizFeedback is a persisted feedback record together with the
// per-question results of the attempt that produced it.
type QuizFeedback struct {
	ID                string
	Sequence          int64
	CreatedAt         time.Time
	LearnerID         string
	Syllabus          string
	Kind              string
	QuestionsPerLevel int
	MaxLevelReached   int
	Tier              string
	Message           string
	Reason            string
	TotalAttempted    int
	TotalCorrect      int
	Accuracy          float64

	// Results is empty on list queries.
	Results []QuestionResult
}

// QuestionResult is one answered question of a stored attempt.
type QuestionResult struct {
	Position         int
	Level            int
	Topic            string
	QuestionText     string
	StudentAnswer    string
	SelectedOption   string
	CorrectOption    string
	ExpectedKeywords []string
	MatchedKeywords  map[string]string // keyword -> answer text that matched it
	IsCorrect        bool
	ScorePercentage  float64
}

// MatchedPairs lists matched keywords in expected-keyword order, each
// followed by the answer text in parentheses when it differs.
func (q QuestionResult) MatchedPairs() []string {
	keys := make([]string, 0, len(q.MatchedKeywords))
	for _, kw := range q.ExpectedKeywords {
		if _, ok := q.MatchedKeywords[kw]; ok {
			keys = append(keys, kw)
		}
	}
	if len(keys) < len(q.MatchedKeywords) {
		var extra []string
		for kw := range q.MatchedKeywords {
			if !slices.Contains(keys, kw) {
				extra = append(extra, kw)
			}
		}
		slices.Sort(extra)
		keys = append(keys, extra...)
	}

	out := make([]string, len(keys))
	for i, kw := range keys {
		if tok := q.MatchedKeywords[kw]; tok != "" && tok != kw {
			out[i] = kw + " (" + tok + ")"
		} else {
			out[i] = kw
		}
	}
	return out
}

// FeedbackRepo stores finished attempts.
type FeedbackRepo interface {
	// Save writes the record and all its results in one transaction and
	// returns the new record id. fb.ID, fb.Sequence and fb.CreatedAt are
	// filled in.
	Save(ctx context.Context, fb *QuizFeedback) (string, error)

	// Get loads one record with its results, or ErrNotFound.
	Get(ctx context.Context, id string) (*QuizFeedback, error)

	// List returns records newest first, without results.
	List(ctx context.Context, opts QueryOpts) ([]QuizFeedback, error)
}

// LLMRequestEventData is what the llm logging middleware records per call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates events sharing one purpose or one model.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
	Failures     int
}

// EventRepo appends and reads LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
