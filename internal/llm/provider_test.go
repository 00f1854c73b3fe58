package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"cards":[{"front":"a","back":"b"}]}`), Usage: Usage{InputTokens: 7}},
		MockResponse{Content: json.RawMessage(`"Photosynthesis turns light into sugar."`)},
	)

	resp, err := mock.Generate(context.Background(), Request{Schema: flashcardSchema})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 7 || resp.Model != "mock" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	resp, err = mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Photosynthesis turns light into sugar." {
		t.Fatalf("Text() = %q", resp.Text())
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})

	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"cards":[]}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: flashcardSchema})

	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"ok"`)})
	req := Request{
		System:   "You are a study buddy.",
		Messages: []Message{{Role: RoleUser, Content: "Explain recursion."}},
	}
	mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].Messages[0].Content != "Explain recursion." {
		t.Fatalf("unexpected recorded request: %+v", mock.Calls[0])
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{`"quoted answer"`, "quoted answer"},
		{"  plain answer\n", "plain answer"},
		{`{"answer":"x"}`, `{"answer":"x"}`},
		{`"unterminated`, `"unterminated`},
	}
	for _, tt := range tests {
		r := &Response{Content: json.RawMessage(tt.content)}
		if got := r.Text(); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}

	var nilResp *Response
	if nilResp.Text() != "" {
		t.Error("nil response should have empty text")
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if got := PurposeFrom(ctx); got != "unknown" {
		t.Fatalf("expected 'unknown', got %q", got)
	}

	ctx = WithPurpose(ctx, PurposeQuiz)
	if got := PurposeFrom(ctx); got != PurposeQuiz {
		t.Fatalf("expected %q, got %q", PurposeQuiz, got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, false},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"openai with key", Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "k"}}, false},
		{"gemini without key", Config{Provider: ProviderGemini}, true},
		{"openrouter with key", Config{Provider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "k"}}, false},
		{"mock", Config{Provider: ProviderMock}, false},
		{"unknown", Config{Provider: "llama"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveConfig(t *testing.T) {
	for _, k := range []string{"STUDYBUDDY_LLM_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	if _, ok := ResolveConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, ok := ResolveConfig()
	if !ok || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("discovery picked %+v (ok=%v)", cfg.Provider, ok)
	}

	t.Setenv("STUDYBUDDY_LLM_PROVIDER", ProviderAnthropic)
	t.Setenv("STUDYBUDDY_ANTHROPIC_API_KEY", "ak-test")
	cfg, ok = ResolveConfig()
	if !ok || cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "ak-test" {
		t.Fatalf("explicit provider ignored: %+v", cfg.Provider)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("unexpected model %q", p.ModelID())
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: ProviderGemini}, nil, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}
