package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
)

//go:embed courses.json
var builtinCourses []byte

// ErrLessonNotFound is returned when a lesson id is not in the catalog.
var ErrLessonNotFound = errors.New("lesson not found")

// ErrCourseNotFound is returned when a course id is not in the catalog.
var ErrCourseNotFound = errors.New("course not found")

// Catalog is the read-only set of courses. Lesson ids form one flat
// namespace across all courses.
type Catalog struct {
	courses  []Course
	byCourse map[string]int
	byLesson map[string]lessonRef
}

type lessonRef struct {
	course int
	lesson int
}

// Load parses and validates a course file.
func Load(raw []byte) (*Catalog, error) {
	if err := checkSchema(raw); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var doc struct {
		Courses []Course `json:"courses"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := validateCourses(doc.Courses); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return build(doc.Courses), nil
}

var builtin *Catalog

func init() {
	c, err := Load(builtinCourses)
	if err != nil {
		panic(fmt.Sprintf("builtin catalog is invalid: %v", err))
	}
	builtin = c
}

// Builtin returns the catalog shipped with the binary.
func Builtin() *Catalog {
	return builtin
}

func build(courses []Course) *Catalog {
	c := &Catalog{
		courses:  courses,
		byCourse: make(map[string]int, len(courses)),
		byLesson: make(map[string]lessonRef),
	}
	for ci := range c.courses {
		c.byCourse[c.courses[ci].ID] = ci
		for li := range c.courses[ci].Lessons {
			c.courses[ci].Lessons[li].CourseID = c.courses[ci].ID
			c.byLesson[c.courses[ci].Lessons[li].ID] = lessonRef{course: ci, lesson: li}
		}
	}
	return c
}

// Courses returns all courses in catalog order.
func (c *Catalog) Courses() []Course {
	return c.courses
}

// Course returns the course with the given id.
func (c *Catalog) Course(id string) (Course, error) {
	i, ok := c.byCourse[id]
	if !ok {
		return Course{}, fmt.Errorf("%w: %q", ErrCourseNotFound, id)
	}
	return c.courses[i], nil
}

// Lesson returns the lesson with the given id.
func (c *Catalog) Lesson(id string) (Lesson, error) {
	ref, ok := c.byLesson[id]
	if !ok {
		return Lesson{}, fmt.Errorf("%w: %q", ErrLessonNotFound, id)
	}
	return c.courses[ref.course].Lessons[ref.lesson], nil
}

// NextLesson returns the lesson after id in the same course. The second
// result is false when id is the last lesson or unknown.
func (c *Catalog) NextLesson(id string) (Lesson, bool) {
	ref, ok := c.byLesson[id]
	if !ok {
		return Lesson{}, false
	}
	lessons := c.courses[ref.course].Lessons
	if ref.lesson+1 >= len(lessons) {
		return Lesson{}, false
	}
	return lessons[ref.lesson+1], true
}

// LessonCount is the number of lessons across all courses.
func (c *Catalog) LessonCount() int {
	return len(c.byLesson)
}
