package tutor

import (
	"strconv"

	"github.com/abhisek/pennywise/internal/catalog"
)

// Explanation is a generated follow-up to a wrong answer. It supplements the
// static explanation shipped with the question.
type Explanation struct {
	QuestionID string
	Text       string
	Tip        string
}

// Input is the context needed to explain one wrong answer.
type Input struct {
	Lesson   catalog.Lesson
	Question catalog.Question
	Chosen   int

	// Attempt is the 1-based attempt that was wrong.
	Attempt int
}

func (in Input) key() string {
	return in.Question.ID + "/" + strconv.Itoa(in.Chosen)
}
