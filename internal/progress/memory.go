package progress

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps progress in process memory. It backs guest play and
// tests, and follows the same lazy-default and versioning rules as the
// persistent stores.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[string]UserProgress
	lessons map[string]map[string]LessonProgress
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]UserProgress),
		lessons: make(map[string]map[string]LessonProgress),
	}
}

var (
	_ Store    = (*MemoryStore)(nil)
	_ Resetter = (*MemoryStore)(nil)
)

func (m *MemoryStore) GetUserProgress(_ context.Context, userID string) (*UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	p = cloneUser(p)
	return &p, nil
}

func (m *MemoryStore) UpsertUserProgress(_ context.Context, userID string, patch Patch) (*UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.users[userID]
	if !ok {
		cur = Default(userID)
	}
	if patch.IfVersion != nil && *patch.IfVersion != cur.Version {
		return nil, ErrVersionConflict
	}

	next := patch.Apply(cur)
	next.Version = cur.Version + 1
	m.users[userID] = next
	next = cloneUser(next)
	return &next, nil
}

func (m *MemoryStore) ListLessonProgress(_ context.Context, userID string) ([]LessonProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]LessonProgress, 0, len(m.lessons[userID]))
	for _, lp := range m.lessons[userID] {
		out = append(out, cloneLesson(lp))
	}
	SortByCompletedAt(out)
	return out, nil
}

func (m *MemoryStore) UpsertLessonProgress(_ context.Context, userID, lessonID string, rec LessonRecord) (*LessonProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byLesson, ok := m.lessons[userID]
	if !ok {
		byLesson = make(map[string]LessonProgress)
		m.lessons[userID] = byLesson
	}

	lp := LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   rec.Completed,
		Accuracy:    rec.Accuracy,
		XPEarned:    rec.XPEarned,
		CompletedAt: cloneTime(rec.CompletedAt),
	}
	byLesson[lessonID] = lp
	lp = cloneLesson(lp)
	return &lp, nil
}

// ResetUser drops all records for the user.
func (m *MemoryStore) ResetUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, userID)
	delete(m.lessons, userID)
	return nil
}

// Records leave the store as deep copies so callers cannot reach the
// stored timestamps.
func cloneUser(p UserProgress) UserProgress {
	p.LastHeartLoss = cloneTime(p.LastHeartLoss)
	p.LastCompletedLesson = cloneTime(p.LastCompletedLesson)
	return p
}

func cloneLesson(lp LessonProgress) LessonProgress {
	lp.CompletedAt = cloneTime(lp.CompletedAt)
	return lp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// SortByCompletedAt orders records newest first. Records without a
// completion time go last, ties break on lesson id.
func SortByCompletedAt(list []LessonProgress) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].CompletedAt, list[j].CompletedAt
		switch {
		case a == nil && b == nil:
			return list[i].LessonID < list[j].LessonID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		default:
			return list[i].LessonID < list[j].LessonID
		}
	})
}
