package questiongen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bloomify/bloomify/internal/bloom"
	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/llm"
)

const material = "A function is a named block of code. Parameters receive arguments. A return statement hands a value back to the caller."

func descriptiveInput() GenerateInput {
	return GenerateInput{
		Level:         bloom.Remember,
		Kind:          evaluator.KindDescriptive,
		SyllabusTitle: "Functions",
		Syllabus:      material,
	}
}

func descriptiveOutput() map[string]any {
	return map[string]any{
		"question": "What is a function?",
		"topic":    "functions",
		"keywords": []string{"Function", " named ", "block", "function"},
	}
}

func choiceOutput() map[string]any {
	return map[string]any{
		"question":       "Which statement hands a value back to the caller?",
		"topic":          "return values",
		"options":        []string{"A) return", "B) yield", "C) pass", " D) break"},
		"correct_option": "A) return ",
	}
}

func TestGenerate_Descriptive(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(descriptiveOutput()))
	gen := New(mock, DefaultConfig())

	sig, err := gen.Generate(context.Background(), descriptiveInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Kind != evaluator.KindDescriptive || sig.Text != "What is a function?" || sig.Topic != "functions" {
		t.Errorf("unexpected signature: %+v", sig)
	}
	want := []string{"function", "named", "block"}
	if strings.Join(sig.Keywords, ",") != strings.Join(want, ",") {
		t.Errorf("keywords = %v, want %v", sig.Keywords, want)
	}

	req := mock.Calls[0]
	if req.Schema != DescriptiveSchema {
		t.Errorf("expected descriptive schema, got %v", req.Schema.Name)
	}
	if !strings.Contains(req.Messages[0].Content, "Bloom level: Remember") {
		t.Errorf("prompt missing level:\n%s", req.Messages[0].Content)
	}
}

func TestGenerate_Choice(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(choiceOutput()))
	gen := New(mock, DefaultConfig())

	input := descriptiveInput()
	input.Kind = evaluator.KindChoice
	input.Level = bloom.Apply

	sig, err := gen.Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.CorrectOption != "A) return" || sig.Options[3] != "D) break" {
		t.Errorf("options not trimmed: %+v", sig)
	}
	if mock.Calls[0].Schema != ChoiceSchema {
		t.Errorf("expected choice schema")
	}
	if sig.Keywords != nil {
		t.Errorf("choice question carries keywords: %v", sig.Keywords)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), descriptiveInput())
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected wrapped ErrRateLimit, got %v", err)
	}
}

func TestGenerate_ParseError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(`{"question": 42}`)})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), descriptiveInput())
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestGenerate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name      string
		output    map[string]any
		kind      evaluator.Kind
		asked     []string
		validator string
	}{
		{
			name:      "empty question",
			output:    map[string]any{"question": " ", "topic": "t", "keywords": []string{"a", "b", "c"}},
			kind:      evaluator.KindDescriptive,
			validator: "structural",
		},
		{
			name:      "no keywords after normalization",
			output:    map[string]any{"question": "q?", "topic": "t", "keywords": []string{" ", ""}},
			kind:      evaluator.KindDescriptive,
			validator: "structural",
		},
		{
			name: "correct option missing",
			output: map[string]any{
				"question": "q?", "topic": "t",
				"options":        []string{"A) a", "B) b", "C) c", "D) d"},
				"correct_option": "E) e",
			},
			kind:      evaluator.KindChoice,
			validator: "structural",
		},
		{
			name:      "too many keywords",
			output:    map[string]any{"question": "q?", "topic": "t", "keywords": []string{"a", "b", "c", "d", "e", "f", "g"}},
			kind:      evaluator.KindDescriptive,
			validator: "keyword-count",
		},
		{
			name:      "repeated question",
			output:    descriptiveOutput(),
			kind:      evaluator.KindDescriptive,
			asked:     []string{"what is a FUNCTION"},
			validator: "repetition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := New(llm.NewMockProvider(llm.MockJSON(tt.output)), DefaultConfig())
			input := descriptiveInput()
			input.Kind = tt.kind
			input.Asked = tt.asked

			_, err := gen.Generate(context.Background(), input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Validator != tt.validator {
				t.Errorf("validator = %q, want %q (%s)", verr.Validator, tt.validator, verr.Message)
			}
		})
	}
}

func TestGenerate_NoValidators(t *testing.T) {
	out := descriptiveOutput()
	out["keywords"] = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	cfg := DefaultConfig()
	cfg.Validators = nil

	sig, err := New(llm.NewMockProvider(llm.MockJSON(out)), cfg).Generate(context.Background(), descriptiveInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sig.Keywords) != 9 {
		t.Errorf("keywords = %d", len(sig.Keywords))
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Validator: "test-validator", Message: "something went wrong", Retryable: true}
	expected := `validator "test-validator": something went wrong`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	names := []string{"structural", "keyword-count", "repetition"}
	if len(cfg.Validators) != len(names) {
		t.Fatalf("expected %d validators, got %d", len(names), len(cfg.Validators))
	}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
}
