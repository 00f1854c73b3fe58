package llm

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(flashcardSchema.Definition)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	cards := schema.Properties["cards"]
	if cards == nil || cards.Type != genai.TypeArray {
		t.Fatalf("expected ARRAY for cards, got %+v", cards)
	}
	item := cards.Items
	if item == nil || item.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT items, got %+v", item)
	}
	if len(item.Properties) != 3 {
		t.Fatalf("expected 3 item properties, got %d", len(item.Properties))
	}
	if len(item.Properties["level"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(item.Properties["level"].Enum))
	}
	if len(item.Required) != 2 || len(schema.Required) != 1 {
		t.Fatalf("unexpected required lists: %v / %v", item.Required, schema.Required)
	}
}

func TestStringList(t *testing.T) {
	if got := stringList([]string{"a", "b"}); len(got) != 2 {
		t.Fatalf("[]string: %v", got)
	}
	if got := stringList([]any{"a", 1, "b"}); len(got) != 2 || got[1] != "b" {
		t.Fatalf("[]any: %v", got)
	}
	if got := stringList("a"); got != nil {
		t.Fatalf("scalar: %v", got)
	}
}

func TestGeminiContents(t *testing.T) {
	contents := geminiContents([]Message{
		{Role: RoleUser, Content: "What is an atom?"},
		{Role: RoleAssistant, Content: "The smallest unit of matter."},
	})
	if len(contents) != 2 || contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected contents: %+v", contents)
	}
}

func TestMapGeminiError(t *testing.T) {
	var rl *ErrRateLimit
	if !errors.As(mapGeminiError(genai.APIError{Code: 429}), &rl) {
		t.Fatal("429 should map to ErrRateLimit")
	}

	var unavail *ErrProviderUnavailable
	if !errors.As(mapGeminiError(genai.APIError{Code: 503}), &unavail) {
		t.Fatal("503 should map to ErrProviderUnavailable")
	}
	if !errors.As(mapGeminiError(errors.New("dial tcp: refused")), &unavail) {
		t.Fatal("network errors should map to ErrProviderUnavailable")
	}

	err := mapGeminiError(genai.APIError{Code: 400})
	if errors.As(err, &rl) || errors.As(err, &unavail) {
		t.Fatalf("400 should not be transient: %v", err)
	}
}
