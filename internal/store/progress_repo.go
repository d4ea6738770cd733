package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pennywise/internal/progress"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var userProgressFields = []string{
	"user_id", "current_xp", "current_level", "current_streak", "hearts_remaining",
	"last_heart_loss", "last_completed_lesson", "version",
}

var lessonProgressFields = []string{
	"user_id", "lesson_id", "completed", "accuracy", "xp_earned", "completed_at",
}

// ProgressRepo implements progress.Store on SQLite. Conditional writes run
// inside a transaction and compare the stored version column.
type ProgressRepo struct {
	db *sql.DB
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *ProgressRepo) GetUserProgress(ctx context.Context, userID string) (*progress.UserProgress, error) {
	return getUser(ctx, r.db, userID)
}

func getUser(ctx context.Context, q querier, userID string) (*progress.UserProgress, error) {
	b := builder()
	query, args := b.Select(userProgressFields...).
		From(b.Table(userProgressTable)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var (
		p                  progress.UserProgress
		heartLoss, lastEnd sql.NullTime
	)
	err := q.QueryRowContext(ctx, query, args...).Scan(
		&p.UserID, &p.XP, &p.Level, &p.Streak, &p.Hearts, &heartLoss, &lastEnd, &p.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, progress.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user progress: %w", err)
	}
	p.LastHeartLoss = timePtr(heartLoss)
	p.LastCompletedLesson = timePtr(lastEnd)
	return &p, nil
}

func (r *ProgressRepo) UpsertUserProgress(ctx context.Context, userID string, patch progress.Patch) (*progress.UserProgress, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	cur, err := getUser(ctx, tx, userID)
	if err != nil && !errors.Is(err, progress.ErrNotFound) {
		return nil, err
	}

	var stored int64
	if cur != nil {
		stored = cur.Version
	}
	if patch.IfVersion != nil && *patch.IfVersion != stored {
		return nil, progress.ErrVersionConflict
	}

	now := time.Now().UTC()
	var next progress.UserProgress
	if cur == nil {
		next = patch.Apply(progress.Default(userID))
		next.Version = 1
		if err := insertUser(ctx, tx, next, now); err != nil {
			return nil, err
		}
	} else {
		next = patch.Apply(*cur)
		next.Version = cur.Version + 1
		if err := updateUser(ctx, tx, next, cur.Version, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit user progress: %w", err)
	}
	return &next, nil
}

func insertUser(ctx context.Context, q querier, p progress.UserProgress, now time.Time) error {
	query, args := builder().Insert(userProgressTable).
		Columns(slices.Concat(userProgressFields, []string{"created_at", "updated_at"})...).
		Values(p.UserID, p.XP, p.Level, p.Streak, p.Hearts,
			nullTime(p.LastHeartLoss), nullTime(p.LastCompletedLesson), p.Version, now, now).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert user progress: %w", err)
	}
	return nil
}

func updateUser(ctx context.Context, q querier, p progress.UserProgress, prevVersion int64, now time.Time) error {
	query, args := builder().Update(userProgressTable).
		Set("current_xp", p.XP).
		Set("current_level", p.Level).
		Set("current_streak", p.Streak).
		Set("hearts_remaining", p.Hearts).
		Set("last_heart_loss", nullTime(p.LastHeartLoss)).
		Set("last_completed_lesson", nullTime(p.LastCompletedLesson)).
		Set("version", p.Version).
		Set("updated_at", now).
		Where(entsql.And(
			entsql.EQ("user_id", p.UserID),
			entsql.EQ("version", prevVersion),
		)).
		Query()

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user progress: %w", err)
	}
	if n == 0 {
		return progress.ErrVersionConflict
	}
	return nil
}

func (r *ProgressRepo) ListLessonProgress(ctx context.Context, userID string) ([]progress.LessonProgress, error) {
	b := builder()
	query, args := b.Select(lessonProgressFields...).
		From(b.Table(lessonProgressTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("completed_at"), "lesson_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lesson progress: %w", err)
	}
	defer rows.Close()

	out := []progress.LessonProgress{}
	for rows.Next() {
		var (
			lp progress.LessonProgress
			at sql.NullTime
		)
		if err := rows.Scan(&lp.UserID, &lp.LessonID, &lp.Completed, &lp.Accuracy, &lp.XPEarned, &at); err != nil {
			return nil, fmt.Errorf("scan lesson progress: %w", err)
		}
		lp.CompletedAt = timePtr(at)
		out = append(out, lp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lesson progress: %w", err)
	}
	return out, nil
}

func (r *ProgressRepo) UpsertLessonProgress(ctx context.Context, userID, lessonID string, rec progress.LessonRecord) (*progress.LessonProgress, error) {
	query, args := builder().Insert(lessonProgressTable).
		Columns(slices.Concat(lessonProgressFields, []string{"updated_at"})...).
		Values(userID, lessonID, rec.Completed, rec.Accuracy, rec.XPEarned, nullTime(rec.CompletedAt), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id", "lesson_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("upsert lesson progress: %w", err)
	}

	return &progress.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   rec.Completed,
		Accuracy:    rec.Accuracy,
		XPEarned:    rec.XPEarned,
		CompletedAt: rec.CompletedAt,
	}, nil
}

// ResetUser deletes the user's progress and lesson history.
func (r *ProgressRepo) ResetUser(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{lessonProgressTable, userProgressTable} {
		query, args := builder().Delete(table).Where(entsql.EQ("user_id", userID)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
