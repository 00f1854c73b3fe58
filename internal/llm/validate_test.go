package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"cards":[{"front":"Mitochondria","back":"Powerhouse of the cell","level":"easy"}]}`, false},
		{"optional field omitted", `{"cards":[{"front":"Osmosis","back":"Diffusion of water"}]}`, false},
		{"missing required", `{"cards":[{"front":"Osmosis"}]}`, true},
		{"wrong type", `{"cards":"none"}`, true},
		{"bad enum", `{"cards":[{"front":"a","back":"b","level":"trivial"}]}`, true},
		{"empty list", `{"cards":[]}`, true},
		{"extra field", `{"cards":[{"front":"a","back":"b","hint":"c"}]}`, true},
		{"malformed", `{"cards":[`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateResponse(flashcardSchema, json.RawMessage(tt.raw))
			if tt.wantErr {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateResponse_StripsCodeFence(t *testing.T) {
	raw := "```json\n{\"cards\":[{\"front\":\"DNA\",\"back\":\"Genetic material\"}]}\n```"

	got, err := validateResponse(flashcardSchema, json.RawMessage(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"cards":[{"front":"DNA","back":"Genetic material"}]}` {
		t.Fatalf("fence not stripped: %s", got)
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage("just prose, not JSON")
	got, err := validateResponse(nil, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("content changed: %s", got)
	}
}
