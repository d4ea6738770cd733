// Package progress holds per-user XP, level, streak and hearts, the store
// contract they are persisted through, and the aggregator that folds lesson
// results into them.
package progress

import (
	"errors"
	"time"
)

// MaxHearts is the heart allowance of a fresh profile.
const MaxHearts = 5

// XPPerLevel is the width of one level band.
const XPPerLevel = 100

var (
	// ErrNotFound is returned by a Store when no record exists yet.
	ErrNotFound = errors.New("progress not found")

	// ErrVersionConflict is returned by a Store when a conditional update
	// finds a different version than the caller expected.
	ErrVersionConflict = errors.New("progress version conflict")
)

// UserProgress is the aggregate record for one user.
type UserProgress struct {
	UserID              string     `json:"userId"`
	XP                  int        `json:"currentXp"`
	Level               int        `json:"currentLevel"`
	Streak              int        `json:"currentStreak"`
	Hearts              int        `json:"heartsRemaining"`
	LastHeartLoss       *time.Time `json:"lastHeartLoss,omitempty"`
	LastCompletedLesson *time.Time `json:"lastCompletedLesson,omitempty"`

	// Version increases by one on every successful write. Zero means the
	// record has never been stored.
	Version int64 `json:"version"`
}

// Default returns the record a user starts with.
func Default(userID string) UserProgress {
	return UserProgress{
		UserID: userID,
		XP:     0,
		Level:  1,
		Streak: 0,
		Hearts: MaxHearts,
	}
}

// OutOfHearts reports whether the user has no hearts left.
func (p UserProgress) OutOfHearts() bool {
	return p.Hearts <= 0
}

// LessonProgress is the latest attempt of one lesson by one user.
type LessonProgress struct {
	UserID      string     `json:"userId"`
	LessonID    string     `json:"lessonId"`
	Completed   bool       `json:"completed"`
	Accuracy    int        `json:"accuracy"`
	XPEarned    int        `json:"xpEarned"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// LessonRecord is the payload of a lesson progress upsert.
type LessonRecord struct {
	Completed   bool       `json:"completed"`
	Accuracy    int        `json:"accuracy"`
	XPEarned    int        `json:"xpEarned"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// LessonResult is what a finished lesson session hands to the aggregator.
type LessonResult struct {
	LessonID    string    `json:"lessonId"`
	TotalXP     int       `json:"totalXp"`
	Accuracy    int       `json:"accuracy"`
	CompletedAt time.Time `json:"completedAt"`
}

// CompletedSet returns the ids of lessons marked completed.
func CompletedSet(list []LessonProgress) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, lp := range list {
		if lp.Completed {
			set[lp.LessonID] = true
		}
	}
	return set
}
