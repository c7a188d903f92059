package grading

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomify/bloomify/internal/evaluator"
)

func TestGradeDescriptive(t *testing.T) {
	res, err := Grade(Item{
		Keywords: []string{"goroutine", "channel"},
		Answer:   "A goroutine sends values over a channel.",
	})
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, []string{"goroutine", "channel"}, res.MatchedKeywords())
}

func TestGradeChoice(t *testing.T) {
	it := Item{Options: []string{"go", "defer", "async", "spawn"}, Correct: "go", Answer: " go "}
	res, err := Grade(it)
	require.NoError(t, err)
	assert.True(t, res.Correct)

	it.Answer = "defer"
	res, err = Grade(it)
	require.NoError(t, err)
	assert.False(t, res.Correct)
}

func TestItemSignature(t *testing.T) {
	sig, err := Item{ID: "q1", Keywords: []string{"a"}}.Signature()
	require.NoError(t, err)
	assert.Equal(t, evaluator.KindDescriptive, sig.Kind)

	_, err = Item{Keywords: []string{"a"}, Options: []string{"a", "b", "c", "d"}}.Signature()
	assert.Error(t, err)

	_, err = Item{Options: []string{"a", "b"}, Correct: "a"}.Signature()
	assert.Error(t, err, "choice items need four options")

	_, err = Item{}.Signature()
	assert.Error(t, err, "descriptive items need keywords")
}

func TestLoadBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`items:
  - id: q1
    keywords: [heap, stack]
    answer: the stack grows, the heap is shared
  - keywords: [slice]
    answer: ""
`), 0o644))

	items, err := LoadBatch(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "q1", items[0].ID)
	assert.Equal(t, "#2", items[1].ID)
}

func TestLoadBatchEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: []\n"), 0o644))
	_, err := LoadBatch(path)
	assert.Error(t, err)
}

func TestGradeAllKeepsOrder(t *testing.T) {
	var items []Item
	for i := 0; i < 20; i++ {
		ans := "wrong"
		if i%2 == 0 {
			ans = "channel"
		}
		items = append(items, Item{ID: string(rune('a' + i)), Keywords: []string{"channel"}, Answer: ans})
	}
	items = append(items, Item{ID: "bad"})

	out, err := GradeAll(context.Background(), items, 3)
	require.NoError(t, err)
	require.Len(t, out, len(items))
	for i, o := range out {
		assert.Equal(t, items[i].ID, o.Item.ID)
	}
	assert.Error(t, out[len(out)-1].Err)

	stats := Summarize(out)
	assert.Equal(t, 21, stats.Total)
	assert.Equal(t, 10, stats.Correct)
	assert.Equal(t, 1, stats.Invalid)
	assert.InDelta(t, 50.0, stats.MeanScore, 1e-9)
}

func TestGradeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GradeAll(ctx, []Item{{Keywords: []string{"a"}, Answer: "a"}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
