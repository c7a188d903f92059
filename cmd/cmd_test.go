package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/store"
)

// execute runs the root command with args and returns stdout. Package-level
// commands keep flag values between runs, so each test uses its own flags.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "bloomify (devel)\n", out)
}

func TestGradeBatch(t *testing.T) {
	t.Setenv("BLOOMIFY_LOG_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`items:
  - id: goroutines
    keywords: [goroutine, channel]
    answer: goroutines communicate over a channel
  - id: keyword
    options: [go, defer, async, spawn]
    correct: go
    answer: defer
  - id: broken
    options: [go]
`), 0o644))

	out, err := execute(t, "grade", "--batch", path, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "goroutines")
	assert.Contains(t, out, "3 items, 1 correct, 1 invalid")
}

func TestResultsListEmpty(t *testing.T) {
	t.Setenv("BLOOMIFY_LOG_LEVEL", "error")
	db := filepath.Join(t.TempDir(), "bloomify.db")
	out, err := execute(t, "results", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BLOOMIFY_DB", filepath.Join(dir, "env", "env.db"))

	got, err := resolveDBPath(versionCmd, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env", "env.db"), got)
	assert.DirExists(t, filepath.Join(dir, "env"))
}

func TestPrintRecord(t *testing.T) {
	rec := &store.QuizFeedback{
		ID:                "01J0000000000000000000TEST",
		CreatedAt:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		LearnerID:         "ada",
		Syllabus:          "Go Basics",
		Kind:              string(evaluator.KindDescriptive),
		QuestionsPerLevel: 3,
		MaxLevelReached:   2,
		Tier:              "intermediate",
		Reason:            "Quiz ended.",
		TotalAttempted:    2,
		TotalCorrect:      1,
		Accuracy:          50,
		Results: []store.QuestionResult{
			{Position: 1, Level: 0, QuestionText: "Define a slice.", StudentAnswer: "a view of arrays",
				ExpectedKeywords: []string{"array", "length"}, MatchedKeywords: map[string]string{"array": "arrays"}, ScorePercentage: 50},
			{Position: 2, Level: 1, QuestionText: "Pick the keyword.", SelectedOption: "go", CorrectOption: "go",
				IsCorrect: true, ScorePercentage: 100},
		},
	}

	var out bytes.Buffer
	printRecord(&out, rec)
	s := out.String()
	for _, want := range []string{"Go Basics", "Apply", "1/2", "Expected:  array, length", "Matched:   array (arrays)", "Correct:   go", "Quiz ended."} {
		assert.True(t, strings.Contains(s, want), "missing %q in:\n%s", want, s)
	}
}

func TestPrintRecordsEmpty(t *testing.T) {
	var out bytes.Buffer
	printRecords(&out, nil)
	assert.Equal(t, "No results found.\n", out.String())
}
