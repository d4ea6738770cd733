package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/progress/storetest"
)

func TestMemoryStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) progress.Store {
		return progress.NewMemoryStore()
	})
}

func TestMemoryStore_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	m := progress.NewMemoryStore()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	up, err := m.UpsertUserProgress(ctx, "u1", progress.Patch{
		LastHeartLoss:       progress.Time(at),
		LastCompletedLesson: progress.Time(at),
	})
	if err != nil {
		t.Fatal(err)
	}
	*up.LastHeartLoss = at.Add(time.Hour)

	got, err := m.GetUserProgress(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	*got.LastCompletedLesson = at.Add(time.Hour)

	again, _ := m.GetUserProgress(ctx, "u1")
	if !again.LastHeartLoss.Equal(at) || !again.LastCompletedLesson.Equal(at) {
		t.Errorf("stored times changed through returned pointers: %v %v",
			again.LastHeartLoss, again.LastCompletedLesson)
	}

	done := at
	lp, err := m.UpsertLessonProgress(ctx, "u1", "lesson-1", progress.LessonRecord{Completed: true, CompletedAt: &done})
	if err != nil {
		t.Fatal(err)
	}
	done = at.Add(time.Hour)
	*lp.CompletedAt = at.Add(2 * time.Hour)

	list, _ := m.ListLessonProgress(ctx, "u1")
	if len(list) != 1 || !list[0].CompletedAt.Equal(at) {
		t.Fatalf("lesson record = %+v", list)
	}
	*list[0].CompletedAt = at.Add(3 * time.Hour)
	list, _ = m.ListLessonProgress(ctx, "u1")
	if !list[0].CompletedAt.Equal(at) {
		t.Errorf("stored completion changed through list result: %v", list[0].CompletedAt)
	}
}
