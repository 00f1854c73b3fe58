package llm

// flashcardSchema is a small schema shared by the provider tests.
var flashcardSchema = &Schema{
	Name:        "test-flashcards",
	Description: "A list of flashcards",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{"type": "string", "minLength": 1},
						"back":  map[string]any{"type": "string", "minLength": 1},
						"level": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
					},
					"required":             []any{"front", "back"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}
