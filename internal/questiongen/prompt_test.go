package questiongen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/evaluator"
)

func TestBuildUserMessage(t *testing.T) {
	input := GenerateInput{
		Level:         bloom.Evaluate,
		Kind:          evaluator.KindDescriptive,
		SyllabusTitle: "Functions",
		Syllabus:      material,
		Asked:         []string{"What is a function?"},
		Topics:        []string{"functions"},
	}
	msg := buildUserMessage(input, DefaultConfig())

	for _, want := range []string{
		"Bloom level: Evaluate",
		"descriptive (free-text answer)",
		"Expected keywords: 5-7",
		"Syllabus: Functions",
		"Parameters receive arguments",
		"1. What is a function?",
		"Topics covered:\n1. functions",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Variation:") {
		t.Error("first attempt should not carry a variation")
	}
}

func TestBuildUserMessage_ChoiceAndVariation(t *testing.T) {
	input := GenerateInput{Level: bloom.Create, Kind: evaluator.KindChoice, Syllabus: material, Variation: 1}
	msg := buildUserMessage(input, DefaultConfig())

	if !strings.Contains(msg, "multiple choice") || strings.Contains(msg, "Expected keywords") {
		t.Errorf("unexpected choice prompt:\n%s", msg)
	}
	if !strings.Contains(msg, "Variation: "+variations[1]) {
		t.Errorf("missing variation:\n%s", msg)
	}
	if !strings.Contains(msg, "Already asked in this session:\nNone") {
		t.Errorf("missing empty asked list:\n%s", msg)
	}
}

func TestBuildList_KeepsMostRecent(t *testing.T) {
	var items []string
	for i := 1; i <= 5; i++ {
		items = append(items, fmt.Sprintf("q%d", i))
	}
	got := buildList(items, 2)
	if got != "1. q4\n2. q5" {
		t.Errorf("got %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo wörld", 5); got != "héllo\n[material truncated]" {
		t.Errorf("got %q", got)
	}
	if got := truncateRunes("short", 100); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncateRunes("unbounded", 0); got != "unbounded" {
		t.Errorf("got %q", got)
	}
}

func TestInstructionsCoverEveryLevel(t *testing.T) {
	for _, l := range bloom.Levels() {
		for _, k := range []evaluator.Kind{evaluator.KindChoice, evaluator.KindDescriptive} {
			if instruction(l, k) == "" {
				t.Errorf("no instruction for %s/%s", l, k)
			}
		}
		lo, hi := KeywordRange(l)
		if lo < 3 || hi < lo {
			t.Errorf("bad keyword range for %s: %d-%d", l, lo, hi)
		}
	}
}

func TestNormalizeKeywords(t *testing.T) {
	got := normalizeKeywords([]string{" Loop ", "loop", "", "Base Case"})
	if strings.Join(got, "|") != "loop|base case" {
		t.Errorf("got %v", got)
	}
}
