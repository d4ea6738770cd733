package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var testSchema = &Schema{
	Name: "validate-test",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string", "minLength": 1},
			"tip":         map[string]any{"type": "string"},
		},
		"required":             []string{"explanation"},
		"additionalProperties": false,
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"nil schema accepts anything", nil, `not json`, false},
		{"valid", testSchema, `{"explanation":"Needs come first."}`, false},
		{"valid with optional", testSchema, `{"explanation":"x","tip":"y"}`, false},
		{"not json", testSchema, `{"explanation":`, true},
		{"missing required", testSchema, `{"tip":"y"}`, true},
		{"empty string", testSchema, `{"explanation":""}`, true},
		{"extra field", testSchema, `{"explanation":"x","score":3}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if tt.wantErr {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %v", err)
				}
				if string(inv.Content) != tt.raw {
					t.Fatalf("expected content to be preserved, got %s", inv.Content)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateResponse_CachesCompiledSchema(t *testing.T) {
	if err := validateResponse(testSchema, json.RawMessage(`{"explanation":"x"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := schemaCache.Load(testSchema.Name); !ok {
		t.Fatal("expected schema to be cached")
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	s := buildGeminiSchema(testSchema.Definition)
	if len(s.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(s.Properties))
	}
	if len(s.Required) != 1 || s.Required[0] != "explanation" {
		t.Fatalf("unexpected required: %v", s.Required)
	}
}
