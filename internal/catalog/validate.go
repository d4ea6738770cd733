package catalog

import (
	"fmt"
	"strings"
)

// validateCourses checks the rules the schema cannot express.
// Returns a combined error describing all problems found, or nil if valid.
func validateCourses(courses []Course) error {
	var errs []string

	courseIDs := make(map[string]bool, len(courses))
	lessonIDs := make(map[string]string)

	for _, c := range courses {
		if courseIDs[c.ID] {
			errs = append(errs, fmt.Sprintf("duplicate course ID: %q", c.ID))
		}
		courseIDs[c.ID] = true

		for _, l := range c.Lessons {
			if owner, seen := lessonIDs[l.ID]; seen {
				errs = append(errs, fmt.Sprintf("lesson %q in course %q already defined in course %q", l.ID, c.ID, owner))
			}
			lessonIDs[l.ID] = c.ID

			if len(l.Questions) == 0 {
				errs = append(errs, fmt.Sprintf("lesson %q has no questions", l.ID))
			}

			questionIDs := make(map[string]bool, len(l.Questions))
			for _, q := range l.Questions {
				if questionIDs[q.ID] {
					errs = append(errs, fmt.Sprintf("lesson %q has duplicate question ID %q", l.ID, q.ID))
				}
				questionIDs[q.ID] = true

				if len(q.Options) < 2 {
					errs = append(errs, fmt.Sprintf("question %q needs at least 2 options, has %d", q.ID, len(q.Options)))
				}
				if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
					errs = append(errs, fmt.Sprintf("question %q correct index %d out of range [0,%d)", q.ID, q.CorrectIndex, len(q.Options)))
				}
				if q.Kind == KindTrueFalse && len(q.Options) != 2 {
					errs = append(errs, fmt.Sprintf("true-false question %q has %d options", q.ID, len(q.Options)))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
