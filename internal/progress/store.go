package progress

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPatch is returned by Patch.Validate.
var ErrInvalidPatch = errors.New("invalid progress patch")

// Patch lists the UserProgress fields to change. Nil fields are left as they
// are on update and defaulted on create.
type Patch struct {
	XP                  *int       `json:"currentXp,omitempty"`
	Level               *int       `json:"currentLevel,omitempty"`
	Streak              *int       `json:"currentStreak,omitempty"`
	Hearts              *int       `json:"heartsRemaining,omitempty"`
	LastHeartLoss       *time.Time `json:"lastHeartLoss,omitempty"`
	LastCompletedLesson *time.Time `json:"lastCompletedLesson,omitempty"`

	// IfVersion makes the write conditional: it succeeds only when the stored
	// version equals *IfVersion (0 meaning "no record yet"). Otherwise the
	// store returns ErrVersionConflict.
	IfVersion *int64 `json:"ifVersion,omitempty"`
}

// Apply returns p applied on top of cur. Version is not touched.
func (p Patch) Apply(cur UserProgress) UserProgress {
	if p.XP != nil {
		cur.XP = *p.XP
	}
	if p.Level != nil {
		cur.Level = *p.Level
	}
	if p.Streak != nil {
		cur.Streak = *p.Streak
	}
	if p.Hearts != nil {
		cur.Hearts = *p.Hearts
	}
	if p.LastHeartLoss != nil {
		t := *p.LastHeartLoss
		cur.LastHeartLoss = &t
	}
	if p.LastCompletedLesson != nil {
		t := *p.LastCompletedLesson
		cur.LastCompletedLesson = &t
	}
	return cur
}

// Validate rejects values that would break the UserProgress invariants.
func (p Patch) Validate() error {
	switch {
	case p.XP != nil && *p.XP < 0:
		return fmt.Errorf("%w: currentXp must be >= 0", ErrInvalidPatch)
	case p.Level != nil && *p.Level < 1:
		return fmt.Errorf("%w: currentLevel must be >= 1", ErrInvalidPatch)
	case p.Streak != nil && *p.Streak < 0:
		return fmt.Errorf("%w: currentStreak must be >= 0", ErrInvalidPatch)
	case p.Hearts != nil && (*p.Hearts < 0 || *p.Hearts > MaxHearts):
		return fmt.Errorf("%w: heartsRemaining must be in [0, %d]", ErrInvalidPatch, MaxHearts)
	case p.IfVersion != nil && *p.IfVersion < 0:
		return fmt.Errorf("%w: ifVersion must be >= 0", ErrInvalidPatch)
	}
	return nil
}

// Store persists progress records. Local and remote backends implement the
// same contract; callers never need to know which one they hold.
type Store interface {
	// GetUserProgress returns the user's record or ErrNotFound.
	GetUserProgress(ctx context.Context, userID string) (*UserProgress, error)

	// UpsertUserProgress applies patch, creating the record with defaults if
	// it does not exist, and returns the stored result.
	UpsertUserProgress(ctx context.Context, userID string, patch Patch) (*UserProgress, error)

	// ListLessonProgress returns all lesson records for the user, most
	// recently completed first.
	ListLessonProgress(ctx context.Context, userID string) ([]LessonProgress, error)

	// UpsertLessonProgress creates or overwrites the (userID, lessonID) record.
	UpsertLessonProgress(ctx context.Context, userID, lessonID string, rec LessonRecord) (*LessonProgress, error)
}

// Resetter is implemented by stores that can wipe a user's progress.
type Resetter interface {
	ResetUser(ctx context.Context, userID string) error
}

// Int returns a pointer to v, for building patches.
func Int(v int) *int { return &v }

// Time returns a pointer to t, for building patches.
func Time(t time.Time) *time.Time { return &t }

// Version returns a pointer to v, for building conditional patches.
func Version(v int64) *int64 { return &v }
