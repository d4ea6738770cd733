// Package tutor asks an LLM to explain wrong answers in more depth than the
// static catalog text.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/pennywise/internal/llm"
)

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = errors.New("tutor is disabled")

// Service generates explanations and caches them per question and chosen
// option so retries of the same mistake do not cost another request.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu    sync.Mutex
	cache map[string]*Explanation
}

// NewService creates a tutor. A nil provider yields a disabled service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		cache:    make(map[string]*Explanation),
	}
}

// Enabled reports whether explanations can be requested.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

// Explain returns an explanation for a wrong answer. It blocks on the
// provider; callers in the TUI run it inside a tea.Cmd.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	key := in.key()
	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, "explain")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(in),
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explanation: %w", err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}

	exp := &Explanation{
		QuestionID: in.Question.ID,
		Text:       out.Explanation,
		Tip:        out.Tip,
	}
	s.mu.Lock()
	s.cache[key] = exp
	s.mu.Unlock()
	return exp, nil
}
