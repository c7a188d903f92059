// Package syllabus loads the source material an assessment is generated
// from, optionally with a bank of prepared questions.
package syllabus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/evaluator"
)

// Syllabus is the material questions are drawn from.
type Syllabus struct {
	Title   string
	Content string
	Bank    []BankQuestion
}

// BankQuestion is a prepared question bound to one level.
type BankQuestion struct {
	Level     bloom.Level
	Signature evaluator.Signature
}

// fileFormat is the on-disk YAML shape.
type fileFormat struct {
	Title     string         `yaml:"title"`
	Content   string         `yaml:"content"`
	Questions []bankQuestion `yaml:"questions"`
}

type bankQuestion struct {
	Level    string   `yaml:"level"`
	Kind     string   `yaml:"kind"`
	Text     string   `yaml:"text"`
	Topic    string   `yaml:"topic"`
	Keywords []string `yaml:"keywords"`
	Options  []string `yaml:"options"`
	Answer   string   `yaml:"answer"`
}

// Load reads a syllabus from path. YAML files (.yaml, .yml) carry a title,
// content and an optional question bank; any other file is taken verbatim
// as content titled after its base name.
func Load(path string) (*Syllabus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read syllabus: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		content := strings.TrimSpace(string(data))
		if content == "" {
			return nil, fmt.Errorf("syllabus %s is empty", path)
		}
		return &Syllabus{
			Title:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Content: content,
		}, nil
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("syllabus %s: %w", path, err)
	}
	if s.Title == "" {
		s.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes YAML syllabus data and validates every bank question.
func Parse(data []byte) (*Syllabus, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	s := &Syllabus{
		Title:   strings.TrimSpace(f.Title),
		Content: strings.TrimSpace(f.Content),
	}
	for i, q := range f.Questions {
		bq, err := q.resolve()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		s.Bank = append(s.Bank, bq)
	}
	if s.Content == "" && len(s.Bank) == 0 {
		return nil, fmt.Errorf("syllabus has neither content nor questions")
	}
	return s, nil
}

func (q bankQuestion) resolve() (BankQuestion, error) {
	level, err := bloom.Parse(q.Level)
	if err != nil {
		return BankQuestion{}, err
	}
	kind, err := evaluator.ParseKind(q.Kind)
	if err != nil {
		return BankQuestion{}, err
	}
	sig := evaluator.Signature{
		Kind:  kind,
		Text:  strings.TrimSpace(q.Text),
		Topic: strings.TrimSpace(q.Topic),
	}
	if kind == evaluator.KindChoice {
		sig.Options = q.Options
		sig.CorrectOption = strings.TrimSpace(q.Answer)
	} else {
		sig.Keywords = q.Keywords
	}
	if err := sig.Validate(); err != nil {
		return BankQuestion{}, err
	}
	return BankQuestion{Level: level, Signature: sig}, nil
}

// Questions returns the bank entries for level and kind, in file order.
func (s *Syllabus) Questions(level bloom.Level, kind evaluator.Kind) []evaluator.Signature {
	var out []evaluator.Signature
	for _, q := range s.Bank {
		if q.Level == level && q.Signature.Kind == kind {
			out = append(out, q.Signature)
		}
	}
	return out
}

// HasBank reports whether every level has at least one question of kind.
func (s *Syllabus) HasBank(kind evaluator.Kind) bool {
	for _, l := range bloom.Levels() {
		if len(s.Questions(l, kind)) == 0 {
			return false
		}
	}
	return true
}
