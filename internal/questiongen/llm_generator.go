package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/llm"
)

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// questionOutput is the raw LLM response before validation.
type questionOutput struct {
	Question      string   `json:"question"`
	Topic         string   `json:"topic"`
	Keywords      []string `json:"keywords"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
}

func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*evaluator.Signature, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestion)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      schemaFor(input.Kind),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	sig := &evaluator.Signature{
		Kind:  input.Kind,
		Text:  strings.TrimSpace(raw.Question),
		Topic: strings.TrimSpace(raw.Topic),
	}
	if input.Kind == evaluator.KindChoice {
		sig.Options = make([]string, len(raw.Options))
		for i, o := range raw.Options {
			sig.Options[i] = strings.TrimSpace(o)
		}
		sig.CorrectOption = strings.TrimSpace(raw.CorrectOption)
	} else {
		sig.Keywords = normalizeKeywords(raw.Keywords)
	}

	if verr := runValidators(g.config.Validators, sig, input); verr != nil {
		return nil, verr
	}
	return sig, nil
}

func runValidators(validators []Validator, sig *evaluator.Signature, input GenerateInput) *ValidationError {
	for _, v := range validators {
		if verr := v.Validate(sig, input); verr != nil {
			return verr
		}
	}
	return nil
}
