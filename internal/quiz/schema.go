package quiz

import "github.com/abhisek/devtutor/internal/llm"

// questionSetSchema describes the array the generator must return.
// correctAnswer is not range-checked and id is ignored since ids are
// renumbered after parsing.
var questionSetSchema = &llm.Schema{
	Name:        "quiz-question-set",
	Description: "An array of multiple-choice quiz questions",
	Definition: map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": OptionCount,
					"maxItems": OptionCount,
				},
				"correctAnswer": map[string]any{
					"type": "integer",
				},
				"explanation": map[string]any{
					"type": "string",
				},
			},
			"required": []any{"question", "options"},
		},
	},
}
