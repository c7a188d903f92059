// Package grading scores answers outside an attempt, one at a time or as a
// concurrent batch read from YAML.
package grading

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/bloomify/bloomify/internal/evaluator"
)

// DefaultWorkers bounds concurrent scoring in GradeAll.
const DefaultWorkers = 4

// Item is one answer to grade. Keywords make it descriptive; Options and
// Correct make it a choice item.
type Item struct {
	ID       string   `yaml:"id"`
	Keywords []string `yaml:"keywords"`
	Options  []string `yaml:"options"`
	Correct  string   `yaml:"correct"`
	Answer   string   `yaml:"answer"`
}

type batchFile struct {
	Items []Item `yaml:"items"`
}

// Signature builds the expected-answer signature for the item.
func (it Item) Signature() (evaluator.Signature, error) {
	sig := evaluator.Signature{Text: it.ID}
	if sig.Text == "" {
		sig.Text = "item"
	}
	switch {
	case len(it.Keywords) > 0 && len(it.Options) > 0:
		return sig, errors.New("item has both keywords and options")
	case len(it.Options) > 0:
		sig.Kind = evaluator.KindChoice
		sig.Options = it.Options
		sig.CorrectOption = it.Correct
	default:
		sig.Kind = evaluator.KindDescriptive
		sig.Keywords = it.Keywords
	}
	if err := sig.Validate(); err != nil {
		return sig, err
	}
	return sig, nil
}

// Grade scores a single item.
func Grade(it Item) (evaluator.Result, error) {
	sig, err := it.Signature()
	if err != nil {
		return evaluator.Result{}, err
	}
	return evaluator.Evaluate(it.Answer, sig), nil
}

// LoadBatch reads items from a YAML file with a top-level items list.
func LoadBatch(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	var f batchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("batch %s has no items", path)
	}
	for i := range f.Items {
		if strings.TrimSpace(f.Items[i].ID) == "" {
			f.Items[i].ID = fmt.Sprintf("#%d", i+1)
		}
	}
	return f.Items, nil
}

// Outcome is the graded form of one item. Err is set for malformed items,
// which do not stop the batch.
type Outcome struct {
	Item   Item
	Result evaluator.Result
	Err    error
}

// GradeAll scores items on up to workers goroutines and returns outcomes
// in input order. It fails only when ctx is cancelled.
func GradeAll(ctx context.Context, items []Item, workers int) ([]Outcome, error) {
	if workers < 1 {
		workers = DefaultWorkers
	}
	out := make([]Outcome, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, it := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Grade(it)
			out[i] = Outcome{Item: it, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats summarizes a graded batch.
type Stats struct {
	Total     int
	Correct   int
	Invalid   int
	MeanScore float64
}

// Summarize counts outcomes. MeanScore covers valid items only.
func Summarize(outcomes []Outcome) Stats {
	var s Stats
	var sum float64
	for _, o := range outcomes {
		s.Total++
		if o.Err != nil {
			s.Invalid++
			continue
		}
		sum += o.Result.Score
		if o.Result.Correct {
			s.Correct++
		}
	}
	if valid := s.Total - s.Invalid; valid > 0 {
		s.MeanScore = sum / float64(valid)
	}
	return s
}
