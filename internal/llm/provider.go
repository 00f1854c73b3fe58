package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates completions from a language model.
type Provider interface {
	// Generate sends the request and returns the model output. When
	// req.Schema is set the Content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation so far, oldest first. Quiz, plan and
	// flashcard generation send a single user message; chat sends history.
	Messages []Message

	// Schema, when set, asks the provider for structured JSON output.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies the schema, kebab-case, e.g. "quiz-questions".
	Name string

	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is validated JSON when a Schema was requested, otherwise the
	// raw model text.
	Content json.RawMessage

	Usage Usage
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Text returns Content as plain text. A JSON string literal is unquoted;
// anything else is returned trimmed, as the model produced it.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	raw := strings.TrimSpace(string(r.Content))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return raw
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
