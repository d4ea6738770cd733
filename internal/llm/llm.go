// Package llm talks to hosted language models for the optional tutor. All
// providers return JSON that is validated against the request schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured completion per call.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the output has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Prompt is the user message.
	Prompt string

	// Schema, when set, asks the provider for JSON matching it.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Schema names a JSON Schema definition. Name doubles as the cache key and
// as the schema name sent to providers that require one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output.
type Response struct {
	// Content is the JSON object when a schema was requested, otherwise the
	// raw text.
	Content json.RawMessage
	Usage   Usage
	Model   string

	// Truncated is set when generation stopped at MaxTokens.
	Truncated bool
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through so full model IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
