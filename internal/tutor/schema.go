package tutor

import "github.com/abhisek/studybuddy/internal/llm"

// QuizSchema is the structured output for quiz generation.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A set of multiple choice quiz questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "A short unique identifier for the question",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    4,
							"maxItems":    4,
							"description": "Exactly 4 answer options",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "The correct option, copied verbatim from options",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct answer is right",
						},
					},
					"required":             []any{"id", "question", "options", "correct_answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// FlashcardSchema is the structured output for flashcard generation.
var FlashcardSchema = &llm.Schema{
	Name:        "flashcards",
	Description: "Front/back study flashcards",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "The question or term",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "The answer or definition",
						},
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

// WeeklyGoalsSchema is the structured output for study plan weeks.
var WeeklyGoalsSchema = &llm.Schema{
	Name:        "weekly-goals",
	Description: "One theme and a list of learning objectives per week",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"weeks": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"week": map[string]any{
							"type":    "integer",
							"minimum": 1,
						},
						"theme": map[string]any{
							"type":        "string",
							"description": "Main topic for the week",
						},
						"goals": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Specific learning objectives",
						},
					},
					"required":             []any{"week", "theme", "goals"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"weeks"},
		"additionalProperties": false,
	},
}

// ResourcesSchema is the structured output for recommended resources.
var ResourcesSchema = &llm.Schema{
	Name:        "study-resources",
	Description: "Recommended study resources",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"resources": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 5,
				"items":    map[string]any{"type": "string"},
			},
		},
		"required":             []any{"resources"},
		"additionalProperties": false,
	},
}
