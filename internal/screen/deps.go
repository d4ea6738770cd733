package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/logger"
	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/tutor"
)

// Deps are the services every screen can reach. Tutor may be nil.
type Deps struct {
	Aggregator *progress.Aggregator
	Catalog    *catalog.Catalog
	Tutor      *tutor.Service
	UserID     string
	Log        *logger.Logger
}

// WithDefaults fills in the built-in catalog and a no-op logger when they
// are unset.
func (d Deps) WithDefaults() Deps {
	if d.Catalog == nil {
		d.Catalog = catalog.Builtin()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

// WithUser returns a copy of d for another profile.
func (d Deps) WithUser(userID string) Deps {
	d.UserID = userID
	return d
}

// LoadProgress reads the learner's progress, creating it on first use, and
// reports it as a ProgressMsg.
func (d Deps) LoadProgress() tea.Cmd {
	return func() tea.Msg {
		p, err := d.Aggregator.Load(context.Background(), d.UserID)
		return ProgressMsg{Progress: p, Err: err}
	}
}

// Announce wraps p in a command that delivers it as a ProgressMsg.
func Announce(p *progress.UserProgress) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg { return ProgressMsg{Progress: p} }
}

// CompletedLessons returns the ids of lessons the learner has finished.
func (d Deps) CompletedLessons(ctx context.Context) (map[string]bool, error) {
	list, err := d.Aggregator.Store().ListLessonProgress(ctx, d.UserID)
	if err != nil {
		return nil, err
	}
	return progress.CompletedSet(list), nil
}
