package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/oklog/ulid/v2"
)

type feedbackRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

var feedbackSelect = []string{
	"id", "sequence", "created_at", "learner_id", "syllabus", "kind",
	"questions_per_level", "max_level_reached", "feedback_tier", "feedback_message",
	"reason", "total_attempted", "total_correct", "accuracy_percentage",
}

var resultSelect = []string{
	"position", "bloom_level", "topic", "question_text", "student_answer",
	"selected_option", "correct_option", "expected_keywords", "matched_keywords",
	"is_correct", "score_percentage",
}

func (r *feedbackRepo) Save(ctx context.Context, fb *QuizFeedback) (id string, err error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	seq, err := r.seq.Next(ctx, tx)
	if err != nil {
		return "", err
	}

	b := entsql.Dialect(dialect.SQLite)
	row := *fb
	row.ID = ulid.Make().String()
	row.Sequence = seq
	row.CreatedAt = time.Now().UTC()

	feedbackQ, feedbackArgs := b.Insert(tableFeedbacks).
		Columns(feedbackSelect...).
		Values(row.ID, row.Sequence, row.CreatedAt, row.LearnerID, row.Syllabus, row.Kind,
			row.QuestionsPerLevel, row.MaxLevelReached, row.Tier, row.Message,
			row.Reason, row.TotalAttempted, row.TotalCorrect, row.Accuracy).
		Query()
	if err = tx.Exec(ctx, feedbackQ, feedbackArgs, nil); err != nil {
		return "", fmt.Errorf("insert feedback: %w", err)
	}

	if len(row.Results) > 0 {
		ins := b.Insert(tableResults).Columns(append([]string{"feedback_id"}, resultSelect...)...)
		for i, res := range row.Results {
			var expected, matched []byte
			if expected, err = json.Marshal(nonNil(res.ExpectedKeywords)); err != nil {
				return "", fmt.Errorf("marshal expected keywords: %w", err)
			}
			if matched, err = json.Marshal(nonNilMap(res.MatchedKeywords)); err != nil {
				return "", fmt.Errorf("marshal matched keywords: %w", err)
			}
			ins.Values(row.ID, i+1, res.Level, res.Topic, res.QuestionText, res.StudentAnswer,
				res.SelectedOption, res.CorrectOption, string(expected), string(matched),
				res.IsCorrect, res.ScorePercentage)
		}
		resultQ, resultArgs := ins.Query()
		if err = tx.Exec(ctx, resultQ, resultArgs, nil); err != nil {
			return "", fmt.Errorf("insert question results: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	fb.ID, fb.Sequence, fb.CreatedAt = row.ID, row.Sequence, row.CreatedAt
	return row.ID, nil
}

func (r *feedbackRepo) Get(ctx context.Context, id string) (*QuizFeedback, error) {
	b := entsql.Dialect(dialect.SQLite)
	q, args := b.Select(feedbackSelect...).
		From(entsql.Table(tableFeedbacks)).
		Where(entsql.EQ("id", id)).
		Query()
	list, err := r.queryFeedbacks(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	fb := &list[0]

	q, args = b.Select(resultSelect...).
		From(entsql.Table(tableResults)).
		Where(entsql.EQ("feedback_id", id)).
		OrderBy("position").
		Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query question results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			res               QuestionResult
			expected, matched []byte
		)
		if err := rows.Scan(&res.Position, &res.Level, &res.Topic, &res.QuestionText,
			&res.StudentAnswer, &res.SelectedOption, &res.CorrectOption,
			&expected, &matched, &res.IsCorrect, &res.ScorePercentage); err != nil {
			return nil, fmt.Errorf("scan question result: %w", err)
		}
		if err := decodeKeywords(expected, &res.ExpectedKeywords); err != nil {
			return nil, err
		}
		if err := decodeKeywords(matched, &res.MatchedKeywords); err != nil {
			return nil, err
		}
		fb.Results = append(fb.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fb, nil
}

func (r *feedbackRepo) List(ctx context.Context, opts QueryOpts) ([]QuizFeedback, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(feedbackSelect...).
		From(entsql.Table(tableFeedbacks))
	if opts.LearnerID != "" {
		sel.Where(entsql.EQ("learner_id", opts.LearnerID))
	}
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("created_at", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("created_at", opts.To))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	q, args := sel.Query()
	return r.queryFeedbacks(ctx, q, args)
}

func (r *feedbackRepo) queryFeedbacks(ctx context.Context, q string, args []any) ([]QuizFeedback, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query feedbacks: %w", err)
	}
	defer rows.Close()

	var out []QuizFeedback
	for rows.Next() {
		var fb QuizFeedback
		if err := rows.Scan(&fb.ID, &fb.Sequence, &fb.CreatedAt, &fb.LearnerID, &fb.Syllabus,
			&fb.Kind, &fb.QuestionsPerLevel, &fb.MaxLevelReached, &fb.Tier, &fb.Message,
			&fb.Reason, &fb.TotalAttempted, &fb.TotalCorrect, &fb.Accuracy); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

func decodeKeywords(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode keywords: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
