package textmatch

import "strings"

type synonymEntry struct {
	key      string
	variants []string
}

// synonymTable maps canonical programming and study terms to the variants a
// learner may write instead. Order matters: the first matching entry wins.
var synonymTable = []synonymEntry{
	{"function", []string{"function", "func", "method", "procedure", "subroutine"}},
	{"parameter", []string{"parameter", "parameters", "argument", "arguments", "param", "params", "arg", "args"}},
	{"variable", []string{"variable", "variables", "var", "identifier"}},
	{"loop", []string{"loop", "loops", "iteration", "iterate", "for loop", "while loop"}},
	{"condition", []string{"condition", "conditional", "if statement", "branch"}},
	{"return", []string{"return", "returns", "returned", "output", "result"}},
	{"class", []string{"class", "classes", "blueprint", "object type"}},
	{"object", []string{"object", "objects", "instance", "instances"}},
	{"inheritance", []string{"inheritance", "inherit", "inherits", "subclass", "derived class", "extends"}},
	{"array", []string{"array", "arrays", "list", "lists", "sequence"}},
	{"dictionary", []string{"dictionary", "dict", "map", "hashmap", "hash map", "associative array"}},
	{"string", []string{"string", "strings", "str", "text"}},
	{"integer", []string{"integer", "integers", "int", "whole number"}},
	{"recursion", []string{"recursion", "recursive", "recurse", "self call"}},
	{"algorithm", []string{"algorithm", "algorithms", "steps", "approach"}},
	{"data structure", []string{"data structure", "data structures", "structure"}},
	{"exception", []string{"exception", "exceptions", "error", "errors", "error handling"}},
	{"module", []string{"module", "modules", "package", "library", "import"}},
	{"scope", []string{"scope", "scoping", "namespace", "visibility"}},
	{"compile", []string{"compile", "compiler", "compilation", "build"}},
	{"debug", []string{"debug", "debugging", "debugger", "troubleshoot"}},
	{"memory", []string{"memory", "ram", "heap", "stack"}},
	{"database", []string{"database", "databases", "db", "datastore"}},
	{"query", []string{"query", "queries", "lookup"}},
	{"efficiency", []string{"efficiency", "efficient", "performance", "complexity", "optimization"}},
	{"definition", []string{"definition", "define", "meaning"}},
	{"explain", []string{"explain", "explanation", "describe", "description"}},
	{"analyze", []string{"analyze", "analyse", "analysis", "examine", "break down"}},
	{"evaluate", []string{"evaluate", "evaluation", "assess", "judge", "critique"}},
	{"create", []string{"create", "design", "construct", "develop"}},
	{"apply", []string{"apply", "application", "implement", "implementation"}},
}

// Synonyms returns the accepted variants for keyword. The normalized keyword
// is always the first element. When the table has no matching entry the
// result holds only the normalized keyword.
//
// A table entry matches when the normalized keyword equals its key or one of
// its variants; failing that, when either string contains the other.
func Synonyms(keyword string) []string {
	k := NormalizeKeyword(keyword)

	for _, e := range synonymTable {
		if k == e.key || containsString(e.variants, k) {
			return withKeyword(k, e)
		}
	}
	for _, e := range synonymTable {
		if containsEither(k, e.key) {
			return withKeyword(k, e)
		}
		for _, v := range e.variants {
			if containsEither(k, v) {
				return withKeyword(k, e)
			}
		}
	}
	return []string{k}
}

func withKeyword(k string, e synonymEntry) []string {
	out := make([]string, 0, len(e.variants)+2)
	out = append(out, k)
	if e.key != k {
		out = append(out, e.key)
	}
	for _, v := range e.variants {
		if !containsString(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// containsEither reports whether one of a, b contains the other. Short
// variants such as "ram" or "arg" resolve any key they appear in; exact
// matches are tried first so this only decides unknown keys.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
