// Package storetest is a behavioural test suite every progress.Store
// implementation must pass.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pennywise/internal/progress"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) progress.Store

// Run exercises the store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("GetMissingUser", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetUserProgress(context.Background(), "nobody")
		assert.ErrorIs(t, err, progress.ErrNotFound)
	})

	t.Run("UpsertCreatesWithDefaults", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		p, err := s.UpsertUserProgress(ctx, "u1", progress.Patch{XP: progress.Int(30)})
		require.NoError(t, err)
		assert.Equal(t, "u1", p.UserID)
		assert.Equal(t, 30, p.XP)
		assert.Equal(t, 1, p.Level)
		assert.Equal(t, 0, p.Streak)
		assert.Equal(t, progress.MaxHearts, p.Hearts)
		assert.Nil(t, p.LastHeartLoss)
		assert.Nil(t, p.LastCompletedLesson)
		assert.EqualValues(t, 1, p.Version)

		got, err := s.GetUserProgress(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 30, got.XP)
		assert.EqualValues(t, 1, got.Version)
	})

	t.Run("UpsertIsPartial", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

		_, err := s.UpsertUserProgress(ctx, "u1", progress.Patch{
			XP:     progress.Int(120),
			Level:  progress.Int(2),
			Streak: progress.Int(3),
		})
		require.NoError(t, err)

		p, err := s.UpsertUserProgress(ctx, "u1", progress.Patch{
			Hearts:        progress.Int(4),
			LastHeartLoss: progress.Time(at),
		})
		require.NoError(t, err)
		assert.Equal(t, 120, p.XP)
		assert.Equal(t, 2, p.Level)
		assert.Equal(t, 3, p.Streak)
		assert.Equal(t, 4, p.Hearts)
		require.NotNil(t, p.LastHeartLoss)
		assert.True(t, at.Equal(*p.LastHeartLoss), "lastHeartLoss = %v", p.LastHeartLoss)
		assert.EqualValues(t, 2, p.Version)
	})

	t.Run("ConditionalUpsert", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.UpsertUserProgress(ctx, "u1", progress.Patch{IfVersion: progress.Version(0)})
		require.NoError(t, err)

		_, err = s.UpsertUserProgress(ctx, "u1", progress.Patch{XP: progress.Int(10), IfVersion: progress.Version(0)})
		assert.ErrorIs(t, err, progress.ErrVersionConflict)

		p, err := s.UpsertUserProgress(ctx, "u1", progress.Patch{XP: progress.Int(10), IfVersion: progress.Version(1)})
		require.NoError(t, err)
		assert.Equal(t, 10, p.XP)
		assert.EqualValues(t, 2, p.Version)

		_, err = s.UpsertUserProgress(ctx, "u2", progress.Patch{IfVersion: progress.Version(3)})
		assert.ErrorIs(t, err, progress.ErrVersionConflict)
	})

	t.Run("LessonUpsertOverwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		first := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		second := first.Add(26 * time.Hour)

		_, err := s.UpsertLessonProgress(ctx, "u1", "lesson-1", progress.LessonRecord{
			Completed: true, Accuracy: 100, XPEarned: 100, CompletedAt: &first,
		})
		require.NoError(t, err)

		lp, err := s.UpsertLessonProgress(ctx, "u1", "lesson-1", progress.LessonRecord{
			Completed: true, Accuracy: 60, XPEarned: 85, CompletedAt: &second,
		})
		require.NoError(t, err)
		assert.Equal(t, 60, lp.Accuracy)
		assert.Equal(t, 85, lp.XPEarned)

		list, err := s.ListLessonProgress(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "lesson-1", list[0].LessonID)
		assert.Equal(t, 60, list[0].Accuracy)
		require.NotNil(t, list[0].CompletedAt)
		assert.True(t, second.Equal(*list[0].CompletedAt))
	})

	t.Run("LessonListNewestFirst", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

		for i, id := range []string{"lesson-1", "lesson-2", "lesson-3"} {
			at := base.Add(time.Duration(i) * time.Hour)
			_, err := s.UpsertLessonProgress(ctx, "u1", id, progress.LessonRecord{Completed: true, CompletedAt: &at})
			require.NoError(t, err)
		}
		_, err := s.UpsertLessonProgress(ctx, "u2", "credit-1", progress.LessonRecord{Completed: true})
		require.NoError(t, err)

		list, err := s.ListLessonProgress(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "lesson-3", list[0].LessonID)
		assert.Equal(t, "lesson-2", list[1].LessonID)
		assert.Equal(t, "lesson-1", list[2].LessonID)

		empty, err := s.ListLessonProgress(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("ConcurrentHeartLossesAreNotLost", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		agg := progress.NewAggregator(s, nil)

		_, err := agg.Load(ctx, "u1")
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 3 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := agg.RecordHeartLoss(ctx, "u1", time.Now())
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		p, err := s.GetUserProgress(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, progress.MaxHearts-3, p.Hearts)
	})

	t.Run("ResetUser", func(t *testing.T) {
		s := newStore(t)
		r, ok := s.(progress.Resetter)
		if !ok {
			t.Skip("store does not support reset")
		}
		ctx := context.Background()

		_, err := s.UpsertUserProgress(ctx, "u1", progress.Patch{XP: progress.Int(500), Hearts: progress.Int(0)})
		require.NoError(t, err)
		_, err = s.UpsertLessonProgress(ctx, "u1", "lesson-1", progress.LessonRecord{Completed: true})
		require.NoError(t, err)

		require.NoError(t, r.ResetUser(ctx, "u1"))

		_, err = s.GetUserProgress(ctx, "u1")
		assert.ErrorIs(t, err, progress.ErrNotFound)
		list, err := s.ListLessonProgress(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
