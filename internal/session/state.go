package session

import (
	"time"

	"github.com/abhisek/pennywise/internal/progress"
)

// Phase is where a lesson session sits in its question loop.
type Phase int

const (
	PhaseAwaitingSelection Phase = iota // No option chosen for the head question
	PhaseAwaitingCheck                  // Option chosen, not yet submitted
	PhaseFeedback                       // Answer evaluated, correctness shown
	PhaseComplete                       // Queue empty, lesson finalized
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingSelection:
		return "awaiting-selection"
	case PhaseAwaitingCheck:
		return "awaiting-check"
	case PhaseFeedback:
		return "feedback"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// NoSelection marks State.Selected when nothing is chosen.
const NoSelection = -1

// State is the full, serializable state of one lesson attempt. Transition
// functions never mutate a State in place; they return a new one.
type State struct {
	// SessionID identifies this attempt in logs.
	SessionID string `json:"sessionId"`

	// LessonID is the lesson being played.
	LessonID string `json:"lessonId"`

	// Phase is the current phase.
	Phase Phase `json:"phase"`

	// Queue holds the ids of questions still to be answered correctly,
	// head first.
	Queue []string `json:"queue"`

	// Attempts counts submissions per question id.
	Attempts map[string]int `json:"attempts"`

	// Selected is the tentatively chosen option, or NoSelection.
	Selected int `json:"selected"`

	// PendingRequeue is set when the head question was just answered wrong
	// and must go to the back of the queue on Continue.
	PendingRequeue bool `json:"pendingRequeue"`

	// LastCorrect and LastXP describe the most recent check.
	LastCorrect bool `json:"lastCorrect"`
	LastXP      int  `json:"lastXp"`

	// TotalQuestions is the number of distinct questions in the lesson.
	TotalQuestions int `json:"totalQuestions"`

	FirstAttemptCorrect int `json:"firstAttemptCorrect"`
	TotalCorrect        int `json:"totalCorrect"`
	UniqueCompleted     int `json:"uniqueCompleted"`
	TotalAttempts       int `json:"totalAttempts"`

	// XP accumulated from questions, before the completion bonus.
	XP int `json:"xp"`

	// Hearts is the in-session heart count. It gates the out-of-hearts
	// signal and is decremented even when the persisted copy lags.
	Hearts int `json:"hearts"`

	// StartedAt is when the session began.
	StartedAt time.Time `json:"startedAt"`

	// Result is set once the lesson is complete.
	Result *progress.LessonResult `json:"result,omitempty"`
}

// Head returns the id of the question at the front of the queue.
func (s State) Head() (string, bool) {
	if len(s.Queue) == 0 {
		return "", false
	}
	return s.Queue[0], true
}

// Progress is the fraction of distinct questions answered correctly. Queue
// length and attempt counts both overcount because of retries.
func (s State) Progress() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.UniqueCompleted) / float64(s.TotalQuestions)
}

// OutOfHearts reports whether the session has no hearts left.
func (s State) OutOfHearts() bool {
	return s.Hearts <= 0
}

// Done reports whether the lesson is complete.
func (s State) Done() bool {
	return s.Phase == PhaseComplete
}

func (s State) clone() State {
	c := s
	c.Queue = append([]string(nil), s.Queue...)
	c.Attempts = make(map[string]int, len(s.Attempts))
	for k, v := range s.Attempts {
		c.Attempts[k] = v
	}
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	return c
}
