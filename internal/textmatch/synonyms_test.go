package textmatch

import "testing"

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestSynonymsKnownKey(t *testing.T) {
	got := Synonyms("Function")
	if got[0] != "function" {
		t.Fatalf("first synonym = %q, want normalized keyword", got[0])
	}
	for _, want := range []string{"func", "method", "procedure"} {
		if !contains(got, want) {
			t.Errorf("Synonyms(function) missing %q: %v", want, got)
		}
	}
}

func TestSynonymsVariantLookup(t *testing.T) {
	got := Synonyms("parameters")
	if got[0] != "parameters" {
		t.Fatalf("first synonym = %q", got[0])
	}
	if !contains(got, "parameter") || !contains(got, "arguments") {
		t.Fatalf("Synonyms(parameters) = %v", got)
	}
}

func TestSynonymsContainment(t *testing.T) {
	// "recursive call" contains the "recursion" variant "recursive".
	got := Synonyms("recursive-call")
	if got[0] != "recursive call" {
		t.Fatalf("first synonym = %q", got[0])
	}
	if !contains(got, "recursion") {
		t.Fatalf("expected recursion entry, got %v", got)
	}
}

func TestSynonymsShortVariantContainment(t *testing.T) {
	// "ram usage" contains the memory variant "ram".
	got := Synonyms("ram usage")
	if got[0] != "ram usage" {
		t.Fatalf("first synonym = %q", got[0])
	}
	if !contains(got, "memory") || !contains(got, "heap") {
		t.Fatalf("expected memory entry, got %v", got)
	}
}

func TestSynonymsUnknown(t *testing.T) {
	got := Synonyms("  Photosynthesis ")
	if len(got) != 1 || got[0] != "photosynthesis" {
		t.Fatalf("Synonyms = %v", got)
	}
}

func TestSynonymsDeterministic(t *testing.T) {
	a := Synonyms("loop")
	b := Synonyms("loop")
	if len(a) != len(b) {
		t.Fatal("lengths differ")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: %q vs %q", i, a[i], b[i])
		}
	}
}
