package session

import (
	"time"

	"github.com/abhisek/pennywise/internal/progress"
)

// Summary holds the data displayed on the lesson-complete screen.
type Summary struct {
	LessonID        string
	LessonTitle     string
	Duration        time.Duration
	TotalQuestions  int
	FirstTryCorrect int
	Retries         int
	QuestionXP      int
	BonusXP         int
	TotalXP         int
	Accuracy        int

	// Filled from the saved completion; zero when the save failed.
	Saved          bool
	XP             int
	Level          int
	LeveledUp      bool
	Streak         int
	StreakExtended bool
	XPToNextLevel  int
	HeartsLeft     int
}

// BuildSummary creates a Summary from a completed runner.
func BuildSummary(r *Runner) *Summary {
	st := r.state
	s := &Summary{
		LessonID:        r.lesson.ID,
		LessonTitle:     r.lesson.Title,
		TotalQuestions:  st.TotalQuestions,
		FirstTryCorrect: st.FirstAttemptCorrect,
		Retries:         st.TotalAttempts - st.TotalQuestions,
		QuestionXP:      st.XP,
		BonusXP:         CompletionBonus,
		HeartsLeft:      st.Hearts,
	}
	if st.Result != nil {
		s.TotalXP = st.Result.TotalXP
		s.Accuracy = st.Result.Accuracy
		s.Duration = st.Result.CompletedAt.Sub(st.StartedAt)
	}
	if s.Retries < 0 {
		s.Retries = 0
	}

	if c := r.completion; c != nil {
		s.Saved = c.LessonErr == nil && !r.SaveFailed()
		s.XP = c.Progress.XP
		s.Level = c.Progress.Level
		s.LeveledUp = c.LeveledUp()
		s.Streak = c.Progress.Streak
		s.StreakExtended = c.StreakExtended()
		s.XPToNextLevel = progress.XPToNextLevel(c.Progress.XP)
	}
	return s
}
