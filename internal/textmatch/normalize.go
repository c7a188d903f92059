// Package textmatch turns free text into comparable word sequences and
// resolves domain keywords to their accepted lexical variants.
package textmatch

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// MinTokenLength is the shortest word kept by Tokenize. Words of this
// length or shorter are dropped.
const MinTokenLength = 2

// nonWord matches anything that is not a letter, digit, underscore,
// whitespace or hyphen.
var nonWord = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s-]`)

var keywordSeparators = strings.NewReplacer("-", " ", "_", " ")

// lower applies NFKC folding followed by Unicode lowercasing. A Caser is not
// safe for concurrent use, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(norm.NFKC.String(s))
}

// NormalizeKeyword lowercases s, turns hyphens and underscores into spaces
// and trims surrounding whitespace.
func NormalizeKeyword(s string) string {
	return strings.TrimSpace(keywordSeparators.Replace(lower(s)))
}

// NormalizeText produces the whole-answer form used for phrase containment:
// lowercase, punctuation removed, hyphens and underscores spaced out, and
// whitespace collapsed to single spaces.
func NormalizeText(s string) string {
	s = nonWord.ReplaceAllString(lower(s), " ")
	s = keywordSeparators.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits text into significant words: lowercase, punctuation
// stripped (hyphens kept), short words and stopwords dropped, duplicates
// removed with first-occurrence order preserved. The result may be empty.
func Tokenize(text string) []string {
	cleaned := nonWord.ReplaceAllString(lower(text), " ")
	words := strings.Fields(cleaned)

	tokens := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) <= MinTokenLength {
			continue
		}
		if IsStopword(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		tokens = append(tokens, w)
	}
	return tokens
}
