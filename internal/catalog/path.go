package catalog

// LessonStatus is where a lesson sits on a learner's path through a course.
type LessonStatus int

const (
	StatusLocked LessonStatus = iota
	StatusCurrent
	StatusCompleted
)

func (s LessonStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCurrent:
		return "current"
	default:
		return "locked"
	}
}

// PathStep pairs a lesson with its status.
type PathStep struct {
	Lesson Lesson
	Status LessonStatus
}

// Path lays out a course for a learner. Completed lessons stay completed,
// the first lesson not yet completed is current, and everything else is
// locked.
func Path(course Course, completed map[string]bool) []PathStep {
	steps := make([]PathStep, len(course.Lessons))
	currentAssigned := false
	for i, l := range course.Lessons {
		steps[i].Lesson = l
		switch {
		case completed[l.ID]:
			steps[i].Status = StatusCompleted
		case !currentAssigned:
			steps[i].Status = StatusCurrent
			currentAssigned = true
		default:
			steps[i].Status = StatusLocked
		}
	}
	return steps
}

// CompletedCount returns how many steps are completed.
func CompletedCount(steps []PathStep) int {
	n := 0
	for _, s := range steps {
		if s.Status == StatusCompleted {
			n++
		}
	}
	return n
}
