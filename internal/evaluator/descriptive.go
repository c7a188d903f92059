package evaluator

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/bloomify/bloomify/internal/textmatch"
)

// PassScore is the minimum descriptive score counted as correct.
const PassScore = 70.0

// Strategy names how a keyword was found in the answer.
type Strategy string

const (
	StrategyPhrase  Strategy = "phrase"
	StrategyToken   Strategy = "token"
	StrategyPartial Strategy = "partial"
	StrategyFuzzy   Strategy = "fuzzy"
)

const (
	weightPhrase  = 1.0
	weightToken   = 1.0
	weightPartial = 0.8
	weightFuzzy   = 0.6

	// minPartialLength applies to both sides of a partial token match.
	minPartialLength = 4
	// fuzzyMinLength is exclusive: both sides must be longer.
	fuzzyMinLength = 4
	fuzzyOverlap   = 0.6
)

// Coverage bonus tiers, checked in order.
var coverageBonuses = []struct {
	minCoverage float64
	factor      float64
}{
	{0.8, 1.10},
	{0.6, 1.05},
}

// Match records one keyword found in the answer.
type Match struct {
	Keyword  string   `json:"keyword"`
	Token    string   `json:"token"`
	Strategy Strategy `json:"strategy"`
	Weight   float64  `json:"weight"`
}

// ScoreDescriptive scores answer by keyword coverage. Each keyword is
// matched independently and may reuse a token another keyword matched.
func ScoreDescriptive(answer string, keywords []string) Result {
	if strings.TrimSpace(answer) == "" || len(keywords) == 0 {
		return Result{Unmatched: append([]string(nil), keywords...)}
	}

	tokens := textmatch.Tokenize(answer)
	text := textmatch.NormalizeText(answer)

	var res Result
	var total float64
	for _, kw := range keywords {
		m, ok := matchKeyword(kw, text, tokens)
		if !ok {
			res.Unmatched = append(res.Unmatched, kw)
			continue
		}
		total += m.Weight
		res.Matched = append(res.Matched, m)
	}

	res.Coverage = total / float64(len(keywords))
	score := res.Coverage * 100
	for _, b := range coverageBonuses {
		if res.Coverage >= b.minCoverage {
			score *= b.factor
			break
		}
	}
	res.Score = math.Min(score, 100)
	res.Correct = res.Score >= PassScore
	return res
}

func matchKeyword(keyword, text string, tokens []string) (Match, bool) {
	syns := textmatch.Synonyms(keyword)

	// Phrase containment is a plain substring test, so inflected forms
	// ("computes" for "compute") count in full.
	for _, s := range syns {
		p := textmatch.NormalizeText(s)
		if p == "" {
			continue
		}
		if i := strings.Index(text, p); i >= 0 {
			return Match{Keyword: keyword, Token: enclosingWords(text, i, len(p)), Strategy: StrategyPhrase, Weight: weightPhrase}, true
		}
	}

	for _, s := range syns {
		for _, tok := range tokens {
			if tok == s {
				return Match{Keyword: keyword, Token: tok, Strategy: StrategyToken, Weight: weightToken}, true
			}
		}
	}
	for _, s := range syns {
		if utf8.RuneCountInString(s) < minPartialLength {
			continue
		}
		for _, tok := range tokens {
			if utf8.RuneCountInString(tok) < minPartialLength {
				continue
			}
			if strings.Contains(tok, s) || strings.Contains(s, tok) {
				return Match{Keyword: keyword, Token: tok, Strategy: StrategyPartial, Weight: weightPartial}, true
			}
		}
	}

	norm := textmatch.NormalizeKeyword(keyword)
	if utf8.RuneCountInString(norm) > fuzzyMinLength {
		for _, tok := range tokens {
			if utf8.RuneCountInString(tok) > fuzzyMinLength && similar(norm, tok) {
				return Match{Keyword: keyword, Token: tok, Strategy: StrategyFuzzy, Weight: weightFuzzy}, true
			}
		}
	}
	return Match{}, false
}

// enclosingWords widens text[i:i+n] to the whole words it touches.
func enclosingWords(text string, i, n int) string {
	start := strings.LastIndexByte(text[:i], ' ') + 1
	end := i + n
	if j := strings.IndexByte(text[end:], ' '); j >= 0 {
		end += j
	} else {
		end = len(text)
	}
	return text[start:end]
}

// similar reports whether the distinct characters shared by a and b number
// at least fuzzyOverlap of the shorter string's length.
func similar(a, b string) bool {
	set := make(map[rune]struct{}, len(a))
	for _, r := range a {
		set[r] = struct{}{}
	}
	shared := make(map[rune]struct{})
	for _, r := range b {
		if _, ok := set[r]; ok {
			shared[r] = struct{}{}
		}
	}
	shorter := min(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return float64(len(shared)) >= fuzzyOverlap*float64(shorter)
}
