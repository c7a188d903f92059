package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
)

var keywordSchema = &Schema{
	Name: "test-keywords",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"keywords": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 1},
		},
		"required":             []string{"question", "keywords"},
		"additionalProperties": false,
	},
}

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func newTestOpenAI(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	conf := openai.DefaultConfig("test-key")
	conf.BaseURL = srv.URL + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(conf), model: "gpt-4o-mini"}
}

func openaiCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id": "chatcmpl-test", "object": "chat.completion", "model": "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider(t *testing.T) {
	req := Request{
		System:    "You write Bloom's taxonomy questions.",
		Messages:  []Message{{Role: RoleUser, Content: "Level: remember"}},
		Schema:    keywordSchema,
		MaxTokens: 256,
	}

	t.Run("structured output", func(t *testing.T) {
		p := newTestOpenAI(t, jsonHandler(200, openaiCompletion(`{"question":"Define a loop.","keywords":["loop"]}`, "stop")))
		resp, err := p.Generate(context.Background(), req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Usage.InputTokens != 40 || resp.Usage.TotalTokens != 65 || resp.StopReason != StopEnd {
			t.Fatalf("resp = %+v", resp)
		}
	})

	t.Run("schema violation", func(t *testing.T) {
		p := newTestOpenAI(t, jsonHandler(200, openaiCompletion(`{"question":"Define a loop."}`, "stop")))
		_, err := p.Generate(context.Background(), req)
		if !IsInvalidResponse(err) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		p := newTestOpenAI(t, jsonHandler(200, openaiCompletion(`{"question":"Def`, "length")))
		_, err := p.Generate(context.Background(), req)
		var maxTok *ErrMaxTokensExceeded
		if !errors.As(err, &maxTok) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		p := newTestOpenAI(t, jsonHandler(http.StatusTooManyRequests, map[string]any{
			"error": map[string]any{"type": "tokens", "message": "slow down", "code": "rate_limit_exceeded"},
		}))
		_, err := p.Generate(context.Background(), req)
		var rl *ErrRateLimit
		if !errors.As(err, &rl) {
			t.Fatalf("err = %T %v", err, err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		p := newTestOpenAI(t, jsonHandler(http.StatusInternalServerError, map[string]any{
			"error": map[string]any{"type": "server_error", "message": "boom"},
		}))
		_, err := p.Generate(context.Background(), req)
		var unavail *ErrProviderUnavailable
		if !errors.As(err, &unavail) {
			t.Fatalf("err = %T %v", err, err)
		}
	})
}

func TestAnthropicProvider(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(200, map[string]any{
		"id": "msg_test", "type": "message", "role": "assistant",
		"content":     []map[string]any{{"type": "text", "text": `{"question":"Explain recursion.","keywords":["recursion","base case"]}`}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}))
	t.Cleanup(srv.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-haiku"}, option.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Fatalf("alias not resolved: %s", p.ModelID())
	}
	resp, err := p.Generate(context.Background(), UserRequest("sys", "go", keywordSchema))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Usage.TotalTokens != 80 || resp.StopReason != StopEnd {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "gpt-4o"})
	if err != nil {
		t.Fatal(err)
	}
	// Vendor model names are never aliased.
	if p.ModelID() != "gpt-4o" {
		t.Fatalf("model = %s", p.ModelID())
	}
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "x"}); err == nil {
		t.Fatal("expected missing key error")
	}
	if _, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k"}); err == nil {
		t.Fatal("expected missing model error")
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"options": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 4, "maxItems": 4},
			"level":   map[string]any{"type": "string", "enum": []any{"remember", "create"}},
		},
		"required": []string{"options"},
	})
	if s.Type != "OBJECT" || len(s.Properties) != 2 {
		t.Fatalf("schema = %+v", s)
	}
	opts := s.Properties["options"]
	if opts.Type != "ARRAY" || opts.Items.Type != "STRING" || *opts.MinItems != 4 || *opts.MaxItems != 4 {
		t.Fatalf("options = %+v", opts)
	}
	if len(s.Properties["level"].Enum) != 2 || len(s.Required) != 1 {
		t.Fatalf("enum/required lost: %+v", s)
	}
	if resolveModel("gemini-flash", geminiModels) != "gemini-2.0-flash" || resolveModel("x", geminiModels) != "x" {
		t.Fatal("alias resolution broken")
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"question":"q","keywords":["a"]}`, false},
		{"missing field", `{"question":"q"}`, true},
		{"empty keywords", `{"question":"q","keywords":[]}`, true},
		{"extra field", `{"question":"q","keywords":["a"],"x":1}`, true},
		{"not json", `question: q`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(keywordSchema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if err != nil && !IsInvalidResponse(err) {
				t.Fatalf("err type = %T", err)
			}
		})
	}
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("nil schema rejected: %v", err)
	}
}
