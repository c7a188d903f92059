// Package evaluator scores learner responses against expected-answer
// signatures: ordered keyword lists for descriptive items and a single
// correct option for choice items.
package evaluator

import (
	"fmt"
	"strings"
)

// Kind identifies how a question is answered.
type Kind string

const (
	KindDescriptive Kind = "descriptive"
	KindChoice      Kind = "mcq"
)

// ParseKind accepts "descriptive" or "mcq" (also "choice").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "descriptive", "":
		return KindDescriptive, nil
	case "mcq", "choice":
		return KindChoice, nil
	}
	return "", fmt.Errorf("unknown question kind %q", s)
}

// ChoiceOptions is the number of options a choice item carries.
const ChoiceOptions = 4

// Signature is the expected-answer shape for one question.
type Signature struct {
	Kind  Kind   `json:"kind"`
	Text  string `json:"text"`
	Topic string `json:"topic,omitempty"`

	// Descriptive items.
	Keywords []string `json:"keywords,omitempty"`

	// Choice items.
	Options       []string `json:"options,omitempty"`
	CorrectOption string   `json:"correct_option,omitempty"`
}

// Validate checks the structural rules for the signature's kind.
func (s Signature) Validate() error {
	if strings.TrimSpace(s.Text) == "" {
		return fmt.Errorf("question text is empty")
	}
	switch s.Kind {
	case KindDescriptive:
		if len(s.Keywords) == 0 {
			return fmt.Errorf("descriptive question has no keywords")
		}
		seen := make(map[string]struct{}, len(s.Keywords))
		for i, k := range s.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				return fmt.Errorf("keyword %d is empty", i)
			}
			if _, dup := seen[k]; dup {
				return fmt.Errorf("duplicate keyword %q", k)
			}
			seen[k] = struct{}{}
		}
	case KindChoice:
		if len(s.Options) != ChoiceOptions {
			return fmt.Errorf("choice question needs %d options, got %d", ChoiceOptions, len(s.Options))
		}
		seen := make(map[string]struct{}, len(s.Options))
		found := false
		for i, o := range s.Options {
			o = strings.TrimSpace(o)
			if o == "" {
				return fmt.Errorf("option %d is empty", i)
			}
			if _, dup := seen[o]; dup {
				return fmt.Errorf("duplicate option %q", o)
			}
			seen[o] = struct{}{}
			if o == strings.TrimSpace(s.CorrectOption) {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("correct option %q is not among the options", s.CorrectOption)
		}
	default:
		return fmt.Errorf("unknown question kind %q", s.Kind)
	}
	return nil
}

// Result is the outcome of scoring one response.
type Result struct {
	Score     float64  `json:"score"`
	Correct   bool     `json:"correct"`
	Coverage  float64  `json:"coverage"`
	Matched   []Match  `json:"matched,omitempty"`
	Unmatched []string `json:"unmatched,omitempty"`
}

// MatchedKeywords returns the keywords that contributed to the score.
func (r Result) MatchedKeywords() []string {
	out := make([]string, len(r.Matched))
	for i, m := range r.Matched {
		out[i] = m.Keyword
	}
	return out
}

// MatchedTokens maps each matched keyword to the answer text it matched.
// It is nil when nothing matched.
func (r Result) MatchedTokens() map[string]string {
	if len(r.Matched) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Matched))
	for _, m := range r.Matched {
		out[m.Keyword] = m.Token
	}
	return out
}

// Evaluate scores response against sig. An empty response scores zero.
func Evaluate(response string, sig Signature) Result {
	if sig.Kind == KindChoice {
		return CheckChoice(response, sig.CorrectOption)
	}
	return ScoreDescriptive(response, sig.Keywords)
}

// CheckChoice compares the selected option with the correct one after
// trimming. There is no partial credit.
func CheckChoice(selected, correct string) Result {
	sel := strings.TrimSpace(selected)
	if sel != "" && sel == strings.TrimSpace(correct) {
		return Result{Score: 100, Correct: true, Coverage: 1}
	}
	return Result{}
}
