package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/llm"
)

func testInput(t *testing.T) Input {
	t.Helper()
	lesson, err := catalog.Builtin().Lesson("lesson-1")
	if err != nil {
		t.Fatalf("lesson-1: %v", err)
	}
	q := lesson.Questions[0]
	wrong := (q.CorrectIndex + 1) % len(q.Options)
	return Input{Lesson: lesson, Question: q, Chosen: wrong, Attempt: 2}
}

func TestService_Explain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"A budget plans spending before it happens.","tip":"Write down this week's fixed costs."}`),
	})
	svc := NewService(mock, DefaultConfig())
	in := testInput(t)

	exp, err := svc.Explain(t.Context(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.QuestionID != in.Question.ID {
		t.Errorf("expected question id %q, got %q", in.Question.ID, exp.QuestionID)
	}
	if exp.Text == "" || exp.Tip == "" {
		t.Errorf("expected text and tip, got %+v", exp)
	}

	req := mock.Calls[0]
	if req.Schema != ExplanationSchema {
		t.Error("expected explanation schema")
	}
	for _, want := range []string{in.Question.Prompt, in.Question.CorrectOption(), in.Question.Options[in.Chosen], "attempt 2"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestService_CachesPerQuestionAndChoice(t *testing.T) {
	body := json.RawMessage(`{"explanation":"x","tip":"y"}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: body}, llm.MockResponse{Content: body})
	svc := NewService(mock, DefaultConfig())
	in := testInput(t)

	for range 3 {
		if _, err := svc.Explain(t.Context(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}

	in.Chosen = in.Question.CorrectIndex
	if _, err := svc.Explain(t.Context(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected a new call for a different choice, got %d", mock.CallCount())
	}
}

func TestService_InvalidOutputNotCached(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"explanation":""}`)},
		llm.MockResponse{Content: json.RawMessage(`{"explanation":"ok","tip":"t"}`)},
	)
	svc := NewService(mock, DefaultConfig())
	in := testInput(t)

	_, err := svc.Explain(t.Context(), in)
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}

	exp, err := svc.Explain(t.Context(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.Text != "ok" {
		t.Errorf("unexpected text %q", exp.Text)
	}
}

func TestService_Disabled(t *testing.T) {
	svc := NewService(nil, DefaultConfig())
	if svc.Enabled() {
		t.Fatal("expected disabled")
	}
	if _, err := svc.Explain(context.Background(), testInput(t)); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}

	var nilSvc *Service
	if nilSvc.Enabled() {
		t.Fatal("expected nil service to be disabled")
	}
}
