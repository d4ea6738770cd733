package lesson

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/router"
	"github.com/abhisek/pennywise/internal/screen"
	"github.com/abhisek/pennywise/internal/screens/summary"
	"github.com/abhisek/pennywise/internal/session"
	"github.com/abhisek/pennywise/internal/tutor"
	"github.com/abhisek/pennywise/internal/ui/components"
	"github.com/abhisek/pennywise/internal/ui/layout"
)

const saveWarning = "Progress may not be saved"

// LessonScreen plays one lesson through a session.Runner.
type LessonScreen struct {
	deps   screen.Deps
	lesson catalog.Lesson
	runner *session.Runner

	choice   components.MultiChoice
	feedback *session.Feedback

	explanation *tutor.Explanation
	explaining  bool

	warning     string
	outOfHearts bool
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.BackHandler = (*LessonScreen)(nil)

// New creates a LessonScreen for lesson.
func New(deps screen.Deps, lesson catalog.Lesson) *LessonScreen {
	return &LessonScreen{deps: deps.WithDefaults(), lesson: lesson}
}

func (s *LessonScreen) Init() tea.Cmd {
	deps, lesson := s.deps, s.lesson
	return func() tea.Msg {
		r, p, err := session.NewRunner(context.Background(), deps.Aggregator, lesson, deps.UserID, deps.Log)
		return lessonInitMsg{Runner: r, Progress: p, Err: err}
	}
}

func (s *LessonScreen) Title() string {
	return s.lesson.Title
}

// HandlesBack keeps Esc inside the screen while a lesson is in play so the
// learner is asked before abandoning it.
func (s *LessonScreen) HandlesBack() bool {
	return s.runner != nil && s.errMsg == "" && !s.outOfHearts
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "" || s.outOfHearts:
		return []layout.KeyHint{{Key: "Enter", Description: "Back"}}
	case s.runner == nil:
		return nil
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave lesson"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Check"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonInitMsg:
		return s.handleInit(msg)
	case explanationMsg:
		return s.handleExplanation(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LessonScreen) handleInit(msg lessonInitMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, session.ErrEmptyLesson) {
			s.errMsg = "This lesson has no questions yet."
		} else {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}
	s.runner = msg.Runner
	if msg.Progress.OutOfHearts() {
		s.outOfHearts = true
	}
	s.setupQuestion()
	return s, screen.Announce(msg.Progress)
}

func (s *LessonScreen) handleExplanation(msg explanationMsg) (screen.Screen, tea.Cmd) {
	if s.feedback == nil || s.feedback.Question.ID != msg.QuestionID {
		return s, nil
	}
	s.explaining = false
	if msg.Err == nil {
		s.explanation = msg.Explanation
	}
	return s, nil
}

// setupQuestion resets the option view for the head question.
func (s *LessonScreen) setupQuestion() {
	q, ok := s.runner.Question()
	if !ok {
		return
	}
	s.choice = components.NewMultiChoice(q.Prompt, q.Options, q.Kind != catalog.KindTrueFalse)
	s.feedback = nil
	s.explanation = nil
	s.explaining = false
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" || s.outOfHearts {
		switch key {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.runner == nil {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	if s.feedback != nil {
		switch key {
		case "enter", "space", " ":
			return s.advance()
		}
		return s, nil
	}

	switch key {
	case "up", "k":
		return s, s.selectOption(max(s.choice.Selected-1, 0))
	case "down", "j":
		return s, s.selectOption(min(s.choice.Selected+1, len(s.choice.Options)-1))
	case "enter":
		return s.check()
	}
	if i, ok := s.choice.IndexForKey(key); ok {
		return s, s.selectOption(i)
	}
	return s, nil
}

func (s *LessonScreen) selectOption(i int) tea.Cmd {
	if err := s.runner.Select(i); err != nil {
		return nil
	}
	s.choice.Selected = i
	return nil
}

// check submits the selected option and shows feedback.
func (s *LessonScreen) check() (screen.Screen, tea.Cmd) {
	if s.runner.State().Selected == session.NoSelection {
		return s, nil
	}

	fb, err := s.runner.Check(context.Background())
	if err != nil {
		s.deps.Log.Warn("check answer", "lesson_id", s.lesson.ID, "error", err)
		return s, nil
	}
	s.feedback = fb
	s.choice.Reveal(fb.Question.CorrectIndex)
	if fb.SaveErr != nil {
		s.warning = saveWarning
	}

	if fb.Correct {
		return s, nil
	}

	cmds := []tea.Cmd{s.deps.LoadProgress()}
	if s.deps.Tutor.Enabled() {
		s.explaining = true
		cmds = append(cmds, s.explain(fb))
	}
	return s, tea.Batch(cmds...)
}

// explain asks the tutor about the wrong answer in fb.
func (s *LessonScreen) explain(fb *session.Feedback) tea.Cmd {
	svc := s.deps.Tutor
	in := tutor.Input{
		Lesson:   s.lesson,
		Question: fb.Question,
		Chosen:   fb.Selected,
		Attempt:  s.runner.State().Attempts[fb.Question.ID],
	}
	return func() tea.Msg {
		exp, err := svc.Explain(context.Background(), in)
		return explanationMsg{QuestionID: in.Question.ID, Explanation: exp, Err: err}
	}
}

// advance moves past feedback. It gates on hearts and hands off to the
// summary when the queue is empty.
func (s *LessonScreen) advance() (screen.Screen, tea.Cmd) {
	ctx := context.Background()
	adv, err := s.runner.Continue(ctx)
	if err != nil {
		s.deps.Log.Warn("continue lesson", "lesson_id", s.lesson.ID, "error", err)
		return s, nil
	}

	if adv.Complete {
		return s, s.finish(adv)
	}

	if s.runner.State().OutOfHearts() {
		s.outOfHearts = true
		return s, nil
	}

	s.setupQuestion()
	return s, nil
}

// finish replaces this screen with the lesson summary.
func (s *LessonScreen) finish(adv *session.Advance) tea.Cmd {
	r := s.runner
	deps := s.deps

	var next func() screen.Screen
	if nl, ok := deps.Catalog.NextLesson(s.lesson.ID); ok {
		next = func() screen.Screen { return New(deps, nl) }
	}

	sum := summary.New(session.BuildSummary(r), next).
		WithRetry(func() (*session.Summary, error) {
			_, err := r.RetrySave(context.Background())
			return session.BuildSummary(r), err
		})

	var announce tea.Cmd
	if adv.Completion != nil {
		p := adv.Completion.Progress
		announce = screen.Announce(&p)
	}
	return tea.Batch(
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} },
		announce,
	)
}
