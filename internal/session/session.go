// Package session runs a single lesson attempt: a queue of questions where
// wrong answers go to the back until every question has been answered
// correctly once.
package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
)

const (
	// XPFirstAttempt is awarded for a question answered right the first time.
	XPFirstAttempt = 10

	// XPRetry is awarded for a question answered right after a miss.
	XPRetry = XPFirstAttempt / 2

	// CompletionBonus is added once when the lesson is finished.
	CompletionBonus = 50
)

var (
	ErrEmptyLesson    = errors.New("lesson has no questions")
	ErrLessonMismatch = errors.New("state belongs to a different lesson")
	ErrInvalidOption  = errors.New("option index out of range")
	ErrNoSelection    = errors.New("no option selected")
	ErrWrongPhase     = errors.New("operation not allowed in current phase")
)

// EffectKind names a side effect the caller must carry out.
type EffectKind int

const (
	// EffectHeartLost asks the caller to persist a heart loss now.
	EffectHeartLost EffectKind = iota

	// EffectOutOfHearts signals that the in-session hearts just hit zero.
	EffectOutOfHearts

	// EffectLessonComplete asks the caller to persist the lesson result.
	EffectLessonComplete
)

func (k EffectKind) String() string {
	switch k {
	case EffectHeartLost:
		return "heart-lost"
	case EffectOutOfHearts:
		return "out-of-hearts"
	case EffectLessonComplete:
		return "lesson-complete"
	default:
		return "unknown"
	}
}

// Effect is an instruction emitted by a transition.
type Effect struct {
	Kind   EffectKind
	At     time.Time
	Result *progress.LessonResult
}

// Start seeds a session for lesson. hearts is the learner's current heart
// count; a session may start at zero, gating is left to the caller.
func Start(lesson catalog.Lesson, hearts int, now time.Time) (State, error) {
	if len(lesson.Questions) == 0 {
		return State{}, fmt.Errorf("start %s: %w", lesson.ID, ErrEmptyLesson)
	}

	queue := make([]string, len(lesson.Questions))
	for i, q := range lesson.Questions {
		queue[i] = q.ID
	}

	return State{
		SessionID:      uuid.New().String(),
		LessonID:       lesson.ID,
		Phase:          PhaseAwaitingSelection,
		Queue:          queue,
		Attempts:       make(map[string]int, len(queue)),
		Selected:       NoSelection,
		TotalQuestions: len(queue),
		Hearts:         max(hearts, 0),
		StartedAt:      now,
	}, nil
}

// CurrentQuestion returns the question at the head of the queue.
func CurrentQuestion(s State, lesson catalog.Lesson) (catalog.Question, bool) {
	id, ok := s.Head()
	if !ok {
		return catalog.Question{}, false
	}
	return lesson.Question(id)
}

// Select records a tentative choice for the head question. Once feedback is
// shown the call is rejected and s is returned unchanged.
func Select(s State, lesson catalog.Lesson, index int) (State, error) {
	if s.Phase != PhaseAwaitingSelection && s.Phase != PhaseAwaitingCheck {
		return s, ErrWrongPhase
	}
	q, err := head(s, lesson)
	if err != nil {
		return s, err
	}
	if index < 0 || index >= len(q.Options) {
		return s, fmt.Errorf("%w: %d of %d", ErrInvalidOption, index, len(q.Options))
	}

	next := s.clone()
	next.Selected = index
	next.Phase = PhaseAwaitingCheck
	return next, nil
}

// Check evaluates the selected option against the head question.
func Check(s State, lesson catalog.Lesson, now time.Time) (State, []Effect, error) {
	if s.Phase != PhaseAwaitingCheck {
		if s.Phase == PhaseAwaitingSelection {
			return s, nil, ErrNoSelection
		}
		return s, nil, ErrWrongPhase
	}
	q, err := head(s, lesson)
	if err != nil {
		return s, nil, err
	}

	next := s.clone()
	next.Phase = PhaseFeedback
	next.TotalAttempts++
	firstAttempt := next.Attempts[q.ID] == 0
	next.Attempts[q.ID]++

	var effects []Effect
	if q.IsCorrect(s.Selected) {
		xp := XPRetry
		if firstAttempt {
			xp = XPFirstAttempt
			next.FirstAttemptCorrect++
		}
		next.TotalCorrect++
		next.UniqueCompleted++
		next.XP += xp
		next.LastCorrect = true
		next.LastXP = xp
		next.PendingRequeue = false
		return next, effects, nil
	}

	next.LastCorrect = false
	next.LastXP = 0
	next.PendingRequeue = true
	effects = append(effects, Effect{Kind: EffectHeartLost, At: now})
	if next.Hearts > 0 {
		next.Hearts--
		if next.Hearts == 0 {
			effects = append(effects, Effect{Kind: EffectOutOfHearts, At: now})
		}
	}
	return next, effects, nil
}

// Continue leaves the feedback phase. A missed question moves to the back of
// the queue, a correct one leaves it for good. When the queue empties the
// lesson is finalized.
func Continue(s State, now time.Time) (State, []Effect, error) {
	if s.Phase != PhaseFeedback {
		return s, nil, ErrWrongPhase
	}
	if len(s.Queue) == 0 {
		return s, nil, fmt.Errorf("continue: empty queue in feedback phase: %w", ErrWrongPhase)
	}

	next := s.clone()
	popped := next.Queue[0]
	next.Queue = next.Queue[1:]
	if next.PendingRequeue {
		next.Queue = append(next.Queue, popped)
		next.PendingRequeue = false
	}
	next.Selected = NoSelection

	if len(next.Queue) > 0 {
		next.Phase = PhaseAwaitingSelection
		return next, nil, nil
	}

	next.Phase = PhaseComplete
	res := Finalize(next, now)
	next.Result = &res
	return next, []Effect{{Kind: EffectLessonComplete, At: now, Result: &res}}, nil
}

// Finalize computes the lesson result from a state. Accuracy only counts
// first-attempt answers, so retries lower it even though every question is
// eventually answered.
func Finalize(s State, now time.Time) progress.LessonResult {
	return progress.LessonResult{
		LessonID:    s.LessonID,
		TotalXP:     s.XP + CompletionBonus,
		Accuracy:    Accuracy(s.FirstAttemptCorrect, s.TotalQuestions),
		CompletedAt: now,
	}
}

// Accuracy is round(100 * firstTry / total).
func Accuracy(firstTry, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(firstTry) / float64(total)))
}

func head(s State, lesson catalog.Lesson) (catalog.Question, error) {
	if s.LessonID != lesson.ID {
		return catalog.Question{}, fmt.Errorf("%w: %s vs %s", ErrLessonMismatch, s.LessonID, lesson.ID)
	}
	q, ok := CurrentQuestion(s, lesson)
	if !ok {
		return catalog.Question{}, fmt.Errorf("head question missing from lesson %s: %w", lesson.ID, ErrWrongPhase)
	}
	return q, nil
}
