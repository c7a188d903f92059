package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/grading"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Score an answer against keywords or options without running a quiz",
	Example: "  bloomify grade --keywords goroutine,channel --answer \"goroutines talk over channels\"\n" +
		"  bloomify grade --options go,defer,async,spawn --correct go --answer go\n" +
		"  bloomify grade --batch answers.yaml --workers 8",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if batch, _ := cmd.Flags().GetString("batch"); batch != "" {
			workers, _ := cmd.Flags().GetInt("workers")
			return gradeBatch(cmd, out, batch, workers)
		}

		keywords, _ := cmd.Flags().GetStringSlice("keywords")
		options, _ := cmd.Flags().GetStringSlice("options")
		correct, _ := cmd.Flags().GetString("correct")
		answer, _ := cmd.Flags().GetString("answer")
		if len(keywords) == 0 && len(options) == 0 {
			return fmt.Errorf("one of --keywords, --options or --batch is required")
		}

		res, err := grading.Grade(grading.Item{
			Keywords: keywords,
			Options:  options,
			Correct:  correct,
			Answer:   answer,
		})
		if err != nil {
			return err
		}
		printResult(out, res)
		return nil
	},
}

func init() {
	gradeCmd.Flags().StringSlice("keywords", nil, "Expected keywords, in order (descriptive)")
	gradeCmd.Flags().StringSlice("options", nil, "The four options (choice)")
	gradeCmd.Flags().String("correct", "", "The correct option (choice)")
	gradeCmd.Flags().StringP("answer", "a", "", "The answer to score")
	gradeCmd.Flags().String("batch", "", "YAML file with an items list to score")
	gradeCmd.Flags().IntP("workers", "w", grading.DefaultWorkers, "Concurrent scorers for --batch")
	gradeCmd.MarkFlagsMutuallyExclusive("batch", "keywords")
	gradeCmd.MarkFlagsMutuallyExclusive("batch", "options")
	gradeCmd.MarkFlagsMutuallyExclusive("keywords", "options")
}

func printResult(out io.Writer, res evaluator.Result) {
	verdict := "✗ incorrect"
	if res.Correct {
		verdict = "✓ correct"
	}
	fmt.Fprintf(out, "Score:     %.1f%%  %s\n", res.Score, verdict)
	if len(res.Matched) == 0 && len(res.Unmatched) == 0 {
		return
	}
	fmt.Fprintf(out, "Coverage:  %.2f\n", res.Coverage)
	for _, m := range res.Matched {
		fmt.Fprintf(out, "  + %-20s %-8s via %q\n", m.Keyword, m.Strategy, m.Token)
	}
	for _, k := range res.Unmatched {
		fmt.Fprintf(out, "  - %s\n", k)
	}
}

func gradeBatch(cmd *cobra.Command, out io.Writer, path string, workers int) error {
	items, err := grading.LoadBatch(path)
	if err != nil {
		return err
	}
	outcomes, err := grading.GradeAll(cmd.Context(), items, workers)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%-16s  %7s  %-3s  %s\n", "ID", "Score", "OK", "Detail")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(out, "%-16s  %7s  %-3s  %v\n", truncate(o.Item.ID, 16), "-", "!", o.Err)
			continue
		}
		ok := "✗"
		if o.Result.Correct {
			ok = "✓"
		}
		detail := ""
		if len(o.Result.Unmatched) > 0 {
			detail = "missing: " + strings.Join(o.Result.Unmatched, ", ")
		}
		fmt.Fprintf(out, "%-16s  %6.1f%%  %-3s  %s\n", truncate(o.Item.ID, 16), o.Result.Score, ok, detail)
	}

	st := grading.Summarize(outcomes)
	fmt.Fprintln(out, strings.Repeat("─", 72))
	fmt.Fprintf(out, "%d items, %d correct, %d invalid, mean score %.1f%%\n",
		st.Total, st.Correct, st.Invalid, st.MeanScore)
	return nil
}
