package catalog

// QuestionKind distinguishes how a question's options are presented.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple-choice"
	KindTrueFalse      QuestionKind = "true-false"
)

// Question is a single quiz item. Options are shown in order and exactly one
// of them, CorrectIndex, is right.
type Question struct {
	ID           string       `json:"id"`
	Kind         QuestionKind `json:"kind"`
	Prompt       string       `json:"prompt"`
	Options      []string     `json:"options"`
	CorrectIndex int          `json:"correctOptionIndex"`
	Explanation  string       `json:"explanation"`
}

// IsCorrect reports whether the option at index answers the question.
func (q Question) IsCorrect(index int) bool {
	return index == q.CorrectIndex
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	return q.Options[q.CorrectIndex]
}

// Lesson is an ordered, non-empty list of questions.
type Lesson struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	XPReward    int        `json:"xpReward"`
	Questions   []Question `json:"questions"`
}

// Question returns the question with the given id.
func (l Lesson) Question(id string) (Question, bool) {
	for _, q := range l.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Course groups lessons that are meant to be played in order.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []Lesson `json:"lessons"`
}

// QuestionCount is the total number of questions across the course.
func (c Course) QuestionCount() int {
	n := 0
	for _, l := range c.Lessons {
		n += len(l.Questions)
	}
	return n
}
