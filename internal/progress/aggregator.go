package progress

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/pennywise/internal/logger"
)

// DefaultMaxAttempts bounds the compare-and-swap loop of one aggregator write.
const DefaultMaxAttempts = 10

// lessonWriteAttempts is how many times a lesson record upsert is tried after
// the authoritative UserProgress write has landed.
const lessonWriteAttempts = 2

// Aggregator folds session events into a user's persisted progress. Every
// write is a compare-and-swap on UserProgress.Version, so two sessions of the
// same user cannot lose each other's updates.
type Aggregator struct {
	store       Store
	log         *logger.Logger
	maxAttempts int
	retryWait   time.Duration
}

// NewAggregator creates an aggregator over store. A nil log discards output.
func NewAggregator(store Store, log *logger.Logger) *Aggregator {
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{
		store:       store,
		log:         log,
		maxAttempts: DefaultMaxAttempts,
		retryWait:   50 * time.Millisecond,
	}
}

// Store returns the underlying store.
func (a *Aggregator) Store() Store {
	return a.store
}

// Completion describes the outcome of CompleteLesson.
type Completion struct {
	Previous UserProgress
	Progress UserProgress

	// Lesson is the stored lesson record, nil if LessonErr is set.
	Lesson *LessonProgress

	// LessonErr is set when the lesson history write failed after the
	// progress write succeeded. XP and streak still stand.
	LessonErr error
}

// LeveledUp reports whether the completion crossed a level boundary.
func (c Completion) LeveledUp() bool {
	return c.Progress.Level > c.Previous.Level
}

// StreakExtended reports whether the streak grew.
func (c Completion) StreakExtended() bool {
	return c.Progress.Streak > c.Previous.Streak
}

// Load returns the user's progress, creating the default record on first
// access.
func (a *Aggregator) Load(ctx context.Context, userID string) (*UserProgress, error) {
	p, err := a.store.GetUserProgress(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	p, err = a.store.UpsertUserProgress(ctx, userID, Patch{IfVersion: Version(0)})
	if errors.Is(err, ErrVersionConflict) {
		// Someone else created it first.
		p, err = a.store.GetUserProgress(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("create progress: %w", err)
	}
	return p, nil
}

// RecordHeartLoss takes one heart (never below zero) and stamps the loss time.
func (a *Aggregator) RecordHeartLoss(ctx context.Context, userID string, at time.Time) (*UserProgress, error) {
	next, _, err := a.update(ctx, userID, func(cur UserProgress) Patch {
		return Patch{
			Hearts:        Int(max(cur.Hearts-1, 0)),
			LastHeartLoss: Time(at),
		}
	})
	if err != nil {
		return nil, fmt.Errorf("record heart loss: %w", err)
	}
	return next, nil
}

// CompleteLesson adds the lesson's XP, recomputes level and streak, then
// records the lesson attempt. The progress write is authoritative: if only
// the lesson record fails, the error is reported in Completion.LessonErr and
// the call still succeeds.
func (a *Aggregator) CompleteLesson(ctx context.Context, userID string, res LessonResult) (*Completion, error) {
	next, prev, err := a.update(ctx, userID, func(cur UserProgress) Patch {
		xp := cur.XP + res.TotalXP
		return Patch{
			XP:                  Int(xp),
			Level:               Int(max(cur.Level, LevelForXP(xp))),
			Streak:              Int(NextStreak(cur.Streak, cur.LastCompletedLesson, true, res.CompletedAt)),
			LastCompletedLesson: Time(res.CompletedAt),
		}
	})
	if err != nil {
		return nil, fmt.Errorf("complete lesson %s: %w", res.LessonID, err)
	}

	c := &Completion{Previous: prev, Progress: *next}
	c.Lesson, c.LessonErr = a.RecordLesson(ctx, userID, res)
	return c, nil
}

// RecordLesson writes only the lesson history record for res. It is used to
// repair a completion whose history write failed.
func (a *Aggregator) RecordLesson(ctx context.Context, userID string, res LessonResult) (*LessonProgress, error) {
	rec := LessonRecord{
		Completed:   true,
		Accuracy:    res.Accuracy,
		XPEarned:    res.TotalXP,
		CompletedAt: Time(res.CompletedAt),
	}
	return a.writeLesson(ctx, userID, res.LessonID, rec)
}

// update runs a read-modify-write of the user's progress as a CAS loop.
// It returns the stored record and the one the winning patch was built from.
func (a *Aggregator) update(ctx context.Context, userID string, mutate func(UserProgress) Patch) (*UserProgress, UserProgress, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		cur, err := a.current(ctx, userID)
		if err != nil {
			return nil, UserProgress{}, err
		}

		patch := mutate(cur)
		patch.IfVersion = Version(cur.Version)

		next, err := a.store.UpsertUserProgress(ctx, userID, patch)
		if err == nil {
			return next, cur, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, UserProgress{}, err
		}
		if attempt == a.maxAttempts {
			break
		}
		wait := a.backoff(attempt)
		a.log.Debug("progress write lost race, retrying",
			"user_id", userID, "attempt", attempt, "version", cur.Version, "wait", wait)
		if !sleepCtx(ctx, wait) {
			return nil, UserProgress{}, ctx.Err()
		}
	}
	return nil, UserProgress{}, fmt.Errorf("gave up after %d attempts: %w", a.maxAttempts, ErrVersionConflict)
}

// backoff grows linearly with the attempt and is jittered by half either way
// so colliding writers spread out instead of retrying in lockstep.
func (a *Aggregator) backoff(attempt int) time.Duration {
	wait := a.retryWait * time.Duration(attempt)
	if wait <= 0 {
		return 0
	}
	return wait/2 + rand.N(wait)
}

// current reads the record, falling back to an unsaved default.
func (a *Aggregator) current(ctx context.Context, userID string) (UserProgress, error) {
	p, err := a.store.GetUserProgress(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Default(userID), nil
	}
	if err != nil {
		return UserProgress{}, err
	}
	return *p, nil
}

func (a *Aggregator) writeLesson(ctx context.Context, userID, lessonID string, rec LessonRecord) (*LessonProgress, error) {
	var lastErr error
	for attempt := 1; attempt <= lessonWriteAttempts; attempt++ {
		lp, err := a.store.UpsertLessonProgress(ctx, userID, lessonID, rec)
		if err == nil {
			return lp, nil
		}
		lastErr = err
		if attempt == lessonWriteAttempts || !sleepCtx(ctx, a.retryWait) {
			break
		}
	}

	a.log.Warn("lesson progress not saved",
		"user_id", userID, "lesson_id", lessonID, "error", lastErr)
	return nil, fmt.Errorf("save lesson progress %s: %w", lessonID, lastErr)
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
