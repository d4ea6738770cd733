package tutor

import "github.com/abhisek/pennywise/internal/llm"

// ExplanationSchema is the output contract for wrong-answer explanations.
var ExplanationSchema = &llm.Schema{
	Name:        "wrong-answer-explanation",
	Description: "Why the chosen answer is wrong and what the right idea is",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "2-4 sentences explaining why the chosen option is wrong and why the correct one is right",
				"minLength":   1,
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One short, practical money tip related to the question",
			},
		},
		"required":             []any{"explanation", "tip"},
		"additionalProperties": false,
	},
}
