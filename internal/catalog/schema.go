package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://pennywise/catalog.json"

// catalogSchema describes the on-disk course file. Structural rules that
// JSON Schema cannot express (index bounds, global id uniqueness) are checked
// separately by validateCourses.
var catalogSchema = map[string]any{
	"type":     "object",
	"required": []any{"courses"},
	"properties": map[string]any{
		"courses": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "title", "lessons"},
				"properties": map[string]any{
					"id":          map[string]any{"type": "string", "minLength": 1},
					"title":       map[string]any{"type": "string", "minLength": 1},
					"description": map[string]any{"type": "string"},
					"lessons": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items":    lessonSchema,
					},
				},
			},
		},
	},
}

var lessonSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "title", "xpReward", "questions"},
	"properties": map[string]any{
		"id":          map[string]any{"type": "string", "minLength": 1},
		"title":       map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string"},
		"xpReward":    map[string]any{"type": "integer", "minimum": 0},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "kind", "prompt", "options", "correctOptionIndex"},
				"properties": map[string]any{
					"id":     map[string]any{"type": "string", "minLength": 1},
					"kind":   map[string]any{"type": "string", "enum": []any{string(KindMultipleChoice), string(KindTrueFalse)}},
					"prompt": map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":     "array",
						"minItems": 2,
						"items":    map[string]any{"type": "string", "minLength": 1},
					},
					"correctOptionIndex": map[string]any{"type": "integer", "minimum": 0},
					"explanation":        map[string]any{"type": "string"},
				},
			},
		},
	},
}

// checkSchema validates raw catalog JSON against catalogSchema.
func checkSchema(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	// The compiler wants decoded JSON values, not Go literals.
	defBytes, err := json.Marshal(catalogSchema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, def); err != nil {
		return fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
