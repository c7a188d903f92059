package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/export"
	"github.com/bloomify/bloomify/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect and export finished attempts",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent attempts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		learner, _ := cmd.Flags().GetString("learner")

		return withStore(cmd, func(s *store.Store) error {
			records, err := s.FeedbackRepo().List(cmd.Context(), store.QueryOpts{Limit: limit, LearnerID: learner})
			if err != nil {
				return fmt.Errorf("list results: %w", err)
			}
			printRecords(cmd.OutOrStdout(), records)
			return nil
		})
	},
}

func printRecords(out io.Writer, records []store.QuizFeedback) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No results found.")
		return
	}

	fmt.Fprintf(out, "%-26s  %-16s  %-12s  %-18s  %-11s  %-10s  %-12s  %s\n",
		"ID", "Date", "Learner", "Syllabus", "Kind", "Max Level", "Tier", "Correct")
	fmt.Fprintln(out, strings.Repeat("─", 124))
	for _, r := range records {
		fmt.Fprintf(out, "%-26s  %-16s  %-12s  %-18s  %-11s  %-10s  %-12s  %d/%d (%.0f%%)\n",
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(r.LearnerID, 12),
			truncate(r.Syllabus, 18),
			r.Kind,
			bloom.Level(r.MaxLevelReached).Title(),
			r.Tier,
			r.TotalCorrect, r.TotalAttempted, r.Accuracy,
		)
	}
}

var resultsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show an attempt with every question and answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *store.Store) error {
			r, err := s.FeedbackRepo().Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("result %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("get result: %w", err)
			}
			printRecord(cmd.OutOrStdout(), r)
			return nil
		})
	},
}

func printRecord(out io.Writer, r *store.QuizFeedback) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(out, "ID:        %s\n", r.ID)
	fmt.Fprintf(out, "Time:      %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Learner:   %s\n", r.LearnerID)
	fmt.Fprintf(out, "Syllabus:  %s\n", r.Syllabus)
	fmt.Fprintf(out, "Kind:      %s (%d per level)\n", r.Kind, r.QuestionsPerLevel)
	fmt.Fprintf(out, "Reached:   %s\n", bloom.Level(r.MaxLevelReached).Title())
	fmt.Fprintf(out, "Tier:      %s\n", r.Tier)
	fmt.Fprintf(out, "Correct:   %d/%d (%.1f%%)\n", r.TotalCorrect, r.TotalAttempted, r.Accuracy)
	if r.Reason != "" {
		fmt.Fprintf(out, "Result:    %s\n", r.Reason)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, r.Message)

	for _, q := range r.Results {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		ok := "✗"
		if q.IsCorrect {
			ok = "✓"
		}
		fmt.Fprintf(out, "%d. [%s] %s  %.0f%%\n", q.Position, bloom.Level(q.Level).Title(), ok, q.ScorePercentage)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, q.QuestionText)
		fmt.Fprintln(out)
		if q.CorrectOption != "" {
			fmt.Fprintf(out, "Selected:  %s\n", orNone(q.SelectedOption))
			fmt.Fprintf(out, "Correct:   %s\n", q.CorrectOption)
			continue
		}
		fmt.Fprintf(out, "Answer:    %s\n", orNone(q.StudentAnswer))
		fmt.Fprintf(out, "Expected:  %s\n", strings.Join(q.ExpectedKeywords, ", "))
		fmt.Fprintf(out, "Matched:   %s\n", orNone(strings.Join(q.MatchedPairs(), ", ")))
	}
}

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export attempts and their answers to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")
		limit, _ := cmd.Flags().GetInt("limit")
		learner, _ := cmd.Flags().GetString("learner")

		return withStore(cmd, func(s *store.Store) error {
			ctx := cmd.Context()
			repo := s.FeedbackRepo()
			list, err := repo.List(ctx, store.QueryOpts{Limit: limit, LearnerID: learner})
			if err != nil {
				return fmt.Errorf("list results: %w", err)
			}

			records := make([]store.QuizFeedback, 0, len(list))
			for _, r := range list {
				full, err := repo.Get(ctx, r.ID)
				if err != nil {
					return fmt.Errorf("load result %s: %w", r.ID, err)
				}
				records = append(records, *full)
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			if err := export.WriteXLSX(f, records); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d attempts to %s\n", len(records), path)
			return nil
		})
	},
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

func init() {
	resultsListCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	resultsListCmd.Flags().StringP("learner", "l", "", "Only this learner's attempts")

	resultsExportCmd.Flags().StringP("out", "o", "bloomify-results.xlsx", "Output file")
	resultsExportCmd.Flags().IntP("limit", "n", 0, "Export at most this many attempts (0 for all)")
	resultsExportCmd.Flags().StringP("learner", "l", "", "Only this learner's attempts")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsViewCmd)
	resultsCmd.AddCommand(resultsExportCmd)
}
