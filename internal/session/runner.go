package session

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/logger"
	"github.com/abhisek/pennywise/internal/progress"
)

// Feedback is what the learner sees after checking an answer.
type Feedback struct {
	Correct     bool
	XPAwarded   int
	Question    catalog.Question
	Selected    int
	HeartsLeft  int
	OutOfHearts bool // hearts just reached zero on this answer
	SaveErr     error
}

// Advance is the result of continuing past feedback.
type Advance struct {
	Complete   bool
	Result     *progress.LessonResult
	Completion *progress.Completion
	SaveErr    error
}

// Runner drives one lesson attempt for one user and carries out the
// effects the transitions emit. Store failures never corrupt the in-memory
// state: they are returned alongside the transition so the UI can warn that
// progress may not be saved while play continues.
type Runner struct {
	agg    *progress.Aggregator
	lesson catalog.Lesson
	userID string
	log    *logger.Logger
	now    func() time.Time

	state      State
	completion *progress.Completion
	saveFailed bool
}

// NewRunner loads the user's hearts and starts a session for lesson.
func NewRunner(ctx context.Context, agg *progress.Aggregator, lesson catalog.Lesson, userID string, log *logger.Logger) (*Runner, *progress.UserProgress, error) {
	if log == nil {
		log = logger.Nop()
	}
	p, err := agg.Load(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("start lesson %s: %w", lesson.ID, err)
	}

	r := &Runner{agg: agg, lesson: lesson, userID: userID, now: time.Now}
	st, err := Start(lesson, p.Hearts, r.now())
	if err != nil {
		return nil, nil, err
	}
	r.state = st
	r.log = log.With("user_id", userID, "lesson_id", lesson.ID, "session_id", st.SessionID)
	r.log.Info("lesson started", "questions", st.TotalQuestions, "hearts", st.Hearts)
	return r, p, nil
}

// Resume rebuilds a runner from a previously saved state.
func Resume(agg *progress.Aggregator, lesson catalog.Lesson, userID string, st State, log *logger.Logger) (*Runner, error) {
	if st.LessonID != lesson.ID {
		return nil, fmt.Errorf("resume: %w", ErrLessonMismatch)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		agg:    agg,
		lesson: lesson,
		userID: userID,
		log:    log.With("user_id", userID, "lesson_id", lesson.ID, "session_id", st.SessionID),
		now:    time.Now,
		state:  st.clone(),
	}, nil
}

// State returns a copy of the current session state.
func (r *Runner) State() State {
	return r.state.clone()
}

// Lesson returns the lesson being played.
func (r *Runner) Lesson() catalog.Lesson {
	return r.lesson
}

// Question returns the current head question.
func (r *Runner) Question() (catalog.Question, bool) {
	return CurrentQuestion(r.state, r.lesson)
}

// Completion returns the stored completion once the lesson is saved.
func (r *Runner) Completion() *progress.Completion {
	return r.completion
}

// SaveFailed reports whether a write failed since the last successful
// RetrySave.
func (r *Runner) SaveFailed() bool {
	return r.saveFailed
}

// Select chooses an option for the current question.
func (r *Runner) Select(index int) error {
	st, err := Select(r.state, r.lesson, index)
	if err != nil {
		return err
	}
	r.state = st
	return nil
}

// Check submits the selected option.
func (r *Runner) Check(ctx context.Context) (*Feedback, error) {
	q, _ := r.Question()
	selected := r.state.Selected

	st, effects, err := Check(r.state, r.lesson, r.now())
	if err != nil {
		return nil, err
	}
	r.state = st

	fb := &Feedback{
		Correct:    st.LastCorrect,
		XPAwarded:  st.LastXP,
		Question:   q,
		Selected:   selected,
		HeartsLeft: st.Hearts,
	}
	for _, e := range effects {
		switch e.Kind {
		case EffectHeartLost:
			if _, err := r.agg.RecordHeartLoss(ctx, r.userID, e.At); err != nil {
				r.saveFailed = true
				fb.SaveErr = err
				r.log.Warn("heart loss not saved", "question_id", q.ID, "error", err)
			}
		case EffectOutOfHearts:
			fb.OutOfHearts = true
			r.log.Info("out of hearts", "question_id", q.ID)
		}
	}
	return fb, nil
}

// Continue moves past feedback, finalizing and saving the lesson when the
// queue empties.
func (r *Runner) Continue(ctx context.Context) (*Advance, error) {
	st, effects, err := Continue(r.state, r.now())
	if err != nil {
		return nil, err
	}
	r.state = st

	adv := &Advance{Complete: st.Done(), Result: st.Result}
	for _, e := range effects {
		if e.Kind == EffectLessonComplete {
			adv.Completion, adv.SaveErr = r.save(ctx, *e.Result)
		}
	}
	return adv, nil
}

// RetrySave re-attempts persisting a completed lesson whose save failed.
func (r *Runner) RetrySave(ctx context.Context) (*progress.Completion, error) {
	if r.state.Result == nil {
		return nil, ErrWrongPhase
	}
	if r.completion == nil {
		c, err := r.save(ctx, *r.state.Result)
		if err == nil && c.LessonErr == nil {
			r.saveFailed = false
		}
		return c, err
	}
	if r.completion.LessonErr != nil {
		// Progress already counted; only the history record is missing.
		lp, err := r.agg.RecordLesson(ctx, r.userID, *r.state.Result)
		if err != nil {
			return r.completion, err
		}
		r.completion.Lesson, r.completion.LessonErr = lp, nil
	}
	r.saveFailed = false
	return r.completion, nil
}

func (r *Runner) save(ctx context.Context, res progress.LessonResult) (*progress.Completion, error) {
	c, err := r.agg.CompleteLesson(ctx, r.userID, res)
	if err != nil {
		r.saveFailed = true
		r.log.Warn("lesson completion not saved", "error", err)
		return nil, err
	}
	r.completion = c
	if c.LessonErr != nil {
		r.saveFailed = true
	}
	r.log.Info("lesson completed",
		"xp", res.TotalXP, "accuracy", res.Accuracy,
		"level", c.Progress.Level, "streak", c.Progress.Streak,
		"attempts", r.state.TotalAttempts)
	return c, nil
}
