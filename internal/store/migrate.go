package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableFeedbacks = "quiz_feedbacks"
	tableResults   = "quiz_question_results"
	tableLLMEvents = "llm_request_events"
)

var (
	feedbackColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 26},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "learner_id", Type: field.TypeString, Default: ""},
		{Name: "syllabus", Type: field.TypeString, Default: ""},
		{Name: "kind", Type: field.TypeString},
		{Name: "questions_per_level", Type: field.TypeInt},
		{Name: "max_level_reached", Type: field.TypeInt},
		{Name: "feedback_tier", Type: field.TypeString},
		{Name: "feedback_message", Type: field.TypeString, Size: 2147483647},
		{Name: "reason", Type: field.TypeString, Default: ""},
		{Name: "total_attempted", Type: field.TypeInt},
		{Name: "total_correct", Type: field.TypeInt},
		{Name: "accuracy_percentage", Type: field.TypeFloat64},
	}
	feedbacksTable = &schema.Table{
		Name:       tableFeedbacks,
		Columns:    feedbackColumns,
		PrimaryKey: []*schema.Column{feedbackColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quizfeedback_learner_id", Columns: []*schema.Column{feedbackColumns[3]}},
			{Name: "quizfeedback_created_at", Columns: []*schema.Column{feedbackColumns[2]}},
		},
	}

	resultColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "feedback_id", Type: field.TypeString, Size: 26},
		{Name: "position", Type: field.TypeInt},
		{Name: "bloom_level", Type: field.TypeInt},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "question_text", Type: field.TypeString, Size: 2147483647},
		{Name: "student_answer", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "selected_option", Type: field.TypeString, Default: ""},
		{Name: "correct_option", Type: field.TypeString, Default: ""},
		{Name: "expected_keywords", Type: field.TypeJSON, Nullable: true},
		{Name: "matched_keywords", Type: field.TypeJSON, Nullable: true},
		{Name: "is_correct", Type: field.TypeBool},
		{Name: "score_percentage", Type: field.TypeFloat64},
	}
	resultsTable = &schema.Table{
		Name:       tableResults,
		Columns:    resultColumns,
		PrimaryKey: []*schema.Column{resultColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "quiz_question_results_quiz_feedbacks_results",
			Columns:    []*schema.Column{resultColumns[1]},
			RefColumns: []*schema.Column{feedbackColumns[0]},
			OnDelete:   schema.Cascade,
		}},
		Indexes: []*schema.Index{
			{Name: "quizquestionresult_feedback_id_position", Unique: true, Columns: []*schema.Column{resultColumns[1], resultColumns[2]}},
		},
	}

	llmEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventColumns[5]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmEventColumns[2]}},
		},
	}

	// tables lists every table the store manages, parents first.
	tables = []*schema.Table{feedbacksTable, resultsTable, llmEventsTable}
)

func init() {
	resultsTable.ForeignKeys[0].RefTable = feedbacksTable
}

// migrate creates or upgrades all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv, schema.WithForeignKeys(true))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
