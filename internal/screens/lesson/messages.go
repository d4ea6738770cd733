package lesson

import (
	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/session"
	"github.com/abhisek/pennywise/internal/tutor"
)

// lessonInitMsg is sent when the runner has loaded the learner's hearts.
type lessonInitMsg struct {
	Runner   *session.Runner
	Progress *progress.UserProgress
	Err      error
}

// explanationMsg carries a tutor explanation for a wrong answer.
type explanationMsg struct {
	QuestionID  string
	Explanation *tutor.Explanation
	Err         error
}
