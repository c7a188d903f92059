// Package export writes stored feedback records to spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/store"
)

// Sheet names in the exported workbook.
const (
	AttemptsSheet  = "Attempts"
	QuestionsSheet = "Questions"
)

var attemptHeaders = []any{
	"ID", "Date", "Learner", "Syllabus", "Kind", "Questions/Level",
	"Max Level", "Tier", "Result", "Attempted", "Correct", "Accuracy %", "Feedback",
}

var questionHeaders = []any{
	"Attempt ID", "#", "Level", "Topic", "Question", "Answer",
	"Correct Option", "Expected Keywords", "Matched Keywords", "Score %", "Correct",
}

// WriteXLSX writes one row per record to the Attempts sheet and one row per
// question result to the Questions sheet. Records loaded without results
// contribute no question rows.
func WriteXLSX(w io.Writer, records []store.QuizFeedback) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", AttemptsSheet); err != nil {
		return err
	}
	if err := writeSheet(f, AttemptsSheet, attemptHeaders, attemptRows(records)); err != nil {
		return err
	}

	if _, err := f.NewSheet(QuestionsSheet); err != nil {
		return err
	}
	if err := writeSheet(f, QuestionsSheet, questionHeaders, questionRows(records)); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []any, rows [][]any) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream %s: %w", sheet, err)
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("%s headers: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return sw.Flush()
}

func attemptRows(records []store.QuizFeedback) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			sanitize(r.LearnerID),
			sanitize(r.Syllabus),
			r.Kind,
			r.QuestionsPerLevel,
			bloom.Level(r.MaxLevelReached).Title(),
			r.Tier,
			r.Reason,
			r.TotalAttempted,
			r.TotalCorrect,
			round1(r.Accuracy),
			r.Message,
		})
	}
	return rows
}

func questionRows(records []store.QuizFeedback) [][]any {
	var rows [][]any
	for _, r := range records {
		for _, q := range r.Results {
			correct := "No"
			if q.IsCorrect {
				correct = "Yes"
			}
			rows = append(rows, []any{
				r.ID,
				q.Position,
				bloom.Level(q.Level).Title(),
				sanitize(q.Topic),
				sanitize(q.QuestionText),
				sanitize(q.StudentAnswer),
				sanitize(q.CorrectOption),
				strings.Join(q.ExpectedKeywords, ", "),
				strings.Join(q.MatchedPairs(), ", "),
				round1(q.ScorePercentage),
				correct,
			})
		}
	}
	return rows
}

// sanitize neutralizes spreadsheet formula injection in free text.
func sanitize(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
