package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeedback(learner string) *QuizFeedback {
	return &QuizFeedback{
		LearnerID:         learner,
		Syllabus:          "python-basics",
		Kind:              "descriptive",
		QuestionsPerLevel: 3,
		MaxLevelReached:   1,
		Tier:              "basic",
		Message:           "keep going",
		Reason:            "Quiz ended.",
		TotalAttempted:    2,
		TotalCorrect:      1,
		Accuracy:          50,
		Results: []QuestionResult{
			{
				Level:            0,
				Topic:            "functions",
				QuestionText:     "What is a function?",
				StudentAnswer:    "a reusable block of code",
				ExpectedKeywords: []string{"function", "reusable", "code"},
				MatchedKeywords:  map[string]string{"reusable": "reusable", "code": "code"},
				IsCorrect:        false,
				ScorePercentage:  52.5,
			},
			{
				Level:           0,
				QuestionText:    "Which prints Hello?",
				SelectedOption:  "B",
				CorrectOption:   "B",
				IsCorrect:       true,
				ScorePercentage: 100,
			},
		},
	}
}

func TestFeedbackSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.FeedbackRepo()
	ctx := context.Background()

	fb := sampleFeedback("ana")
	id, err := repo.Save(ctx, fb)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, fb.ID)
	assert.NotZero(t, fb.Sequence)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana", got.LearnerID)
	assert.Equal(t, "basic", got.Tier)
	assert.Equal(t, 50.0, got.Accuracy)
	assert.False(t, got.CreatedAt.IsZero())
	require.Len(t, got.Results, 2)

	first := got.Results[0]
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, []string{"function", "reusable", "code"}, first.ExpectedKeywords)
	assert.Equal(t, map[string]string{"reusable": "reusable", "code": "code"}, first.MatchedKeywords)
	assert.Equal(t, 52.5, first.ScorePercentage)

	second := got.Results[1]
	assert.True(t, second.IsCorrect)
	assert.Equal(t, "B", second.CorrectOption)
	assert.Empty(t, second.ExpectedKeywords)
	assert.Empty(t, second.MatchedKeywords)
}

func TestQuestionResultMatchedPairs(t *testing.T) {
	q := QuestionResult{
		ExpectedKeywords: []string{"function", "parameters", "scope"},
		MatchedKeywords: map[string]string{
			"scope":      "scope",
			"function":   "method",
			"parameters": "arguments",
			"extra":      "x",
		},
	}
	assert.Equal(t, []string{"function (method)", "parameters (arguments)", "scope", "extra (x)"}, q.MatchedPairs())
	assert.Empty(t, QuestionResult{}.MatchedPairs())
}

func TestFeedbackGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.FeedbackRepo().Get(context.Background(), "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFeedbackSaveWithoutResults(t *testing.T) {
	s := openTestStore(t)
	fb := sampleFeedback("ana")
	fb.Results = nil
	fb.TotalAttempted = 0

	id, err := s.FeedbackRepo().Save(context.Background(), fb)
	require.NoError(t, err)

	got, err := s.FeedbackRepo().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, got.Results)
}

func TestFeedbackListFiltersAndOrders(t *testing.T) {
	s := openTestStore(t)
	repo := s.FeedbackRepo()
	ctx := context.Background()

	var ids []string
	for _, learner := range []string{"ana", "ben", "ana"} {
		id, err := repo.Save(ctx, sampleFeedback(learner))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := repo.List(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")
	assert.Empty(t, all[0].Results)

	ana, err := repo.List(ctx, QueryOpts{LearnerID: "ana"})
	require.NoError(t, err)
	assert.Len(t, ana, 2)

	limited, err := repo.List(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestFeedbackSaveIsAtomic(t *testing.T) {
	s := openTestStore(t)
	repo := s.FeedbackRepo()
	ctx := context.Background()

	_, err := s.DB().Exec(`CREATE TRIGGER reject_boom BEFORE INSERT ON quiz_question_results
		WHEN NEW.topic = 'boom' BEGIN SELECT RAISE(ABORT, 'boom'); END`)
	require.NoError(t, err)

	before := sampleFeedback("ana")
	_, err = repo.Save(ctx, before)
	require.NoError(t, err)

	fb := sampleFeedback("ana")
	fb.Results[1].Topic = "boom"
	_, err = repo.Save(ctx, fb)
	require.Error(t, err)

	list, err := repo.List(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, list, 1, "feedback row must roll back with its results")

	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM "+tableResults).Scan(&n))
	assert.Equal(t, len(before.Results), n)

	// The rolled-back save must not consume a sequence number.
	after := sampleFeedback("ana")
	_, err = repo.Save(ctx, after)
	require.NoError(t, err)
	assert.Equal(t, before.Sequence+1, after.Sequence)
}
