package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abhisek/pennywise/internal/progress"
)

const userColumns = `user_id, current_xp, current_level, current_streak, hearts_remaining,
	last_heart_loss, last_completed_lesson, version`

const lessonColumns = `user_id, lesson_id, completed, accuracy, xp_earned, completed_at`

func scanUser(row pgx.Row) (*progress.UserProgress, error) {
	var p progress.UserProgress
	err := row.Scan(&p.UserID, &p.XP, &p.Level, &p.Streak, &p.Hearts,
		&p.LastHeartLoss, &p.LastCompletedLesson, &p.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, progress.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanLesson(row pgx.Row) (*progress.LessonProgress, error) {
	var lp progress.LessonProgress
	if err := row.Scan(&lp.UserID, &lp.LessonID, &lp.Completed, &lp.Accuracy, &lp.XPEarned, &lp.CompletedAt); err != nil {
		return nil, err
	}
	return &lp, nil
}

func (s *Store) GetUserProgress(ctx context.Context, userID string) (*progress.UserProgress, error) {
	p, err := scanUser(s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM user_progress WHERE user_id = $1", userID))
	if err != nil && !errors.Is(err, progress.ErrNotFound) {
		return nil, fmt.Errorf("get user progress: %w", err)
	}
	return p, err
}

// UpsertUserProgress locks the row, checks the expected version and writes
// the patched record. A missing row is inserted with defaults; losing the
// insert race to another writer falls back to the update path.
func (s *Store) UpsertUserProgress(ctx context.Context, userID string, patch progress.Patch) (*progress.UserProgress, error) {
	var out *progress.UserProgress
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cur, err := selectForUpdate(ctx, tx, userID)
		if errors.Is(err, progress.ErrNotFound) {
			if patch.IfVersion != nil && *patch.IfVersion != 0 {
				return progress.ErrVersionConflict
			}
			out, err = insertUser(ctx, tx, patch.Apply(progress.Default(userID)))
			if !errors.Is(err, progress.ErrNotFound) {
				return err
			}
			if patch.IfVersion != nil {
				return progress.ErrVersionConflict
			}
			cur, err = selectForUpdate(ctx, tx, userID)
		}
		if err != nil {
			return err
		}

		if patch.IfVersion != nil && *patch.IfVersion != cur.Version {
			return progress.ErrVersionConflict
		}
		out, err = updateUser(ctx, tx, patch.Apply(*cur))
		return err
	})
	if err != nil {
		if errors.Is(err, progress.ErrVersionConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("upsert user progress: %w", err)
	}
	return out, nil
}

func selectForUpdate(ctx context.Context, q querier, userID string) (*progress.UserProgress, error) {
	return scanUser(q.QueryRow(ctx,
		"SELECT "+userColumns+" FROM user_progress WHERE user_id = $1 FOR UPDATE", userID))
}

// insertUser returns ErrNotFound when the row already exists.
func insertUser(ctx context.Context, q querier, p progress.UserProgress) (*progress.UserProgress, error) {
	return scanUser(q.QueryRow(ctx, `
		INSERT INTO user_progress (user_id, current_xp, current_level, current_streak,
			hearts_remaining, last_heart_loss, last_completed_lesson, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING `+userColumns,
		p.UserID, p.XP, p.Level, p.Streak, p.Hearts, p.LastHeartLoss, p.LastCompletedLesson))
}

func updateUser(ctx context.Context, q querier, p progress.UserProgress) (*progress.UserProgress, error) {
	return scanUser(q.QueryRow(ctx, `
		UPDATE user_progress SET
			current_xp = $2, current_level = $3, current_streak = $4, hearts_remaining = $5,
			last_heart_loss = $6, last_completed_lesson = $7,
			version = version + 1, updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+userColumns,
		p.UserID, p.XP, p.Level, p.Streak, p.Hearts, p.LastHeartLoss, p.LastCompletedLesson))
}

func (s *Store) ListLessonProgress(ctx context.Context, userID string) ([]progress.LessonProgress, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+lessonColumns+` FROM lesson_progress
		WHERE user_id = $1
		ORDER BY completed_at DESC NULLS LAST, lesson_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list lesson progress: %w", err)
	}
	defer rows.Close()

	var out []progress.LessonProgress
	for rows.Next() {
		lp, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson progress: %w", err)
		}
		out = append(out, *lp)
	}
	return out, rows.Err()
}

func (s *Store) UpsertLessonProgress(ctx context.Context, userID, lessonID string, rec progress.LessonRecord) (*progress.LessonProgress, error) {
	lp, err := scanLesson(s.pool.QueryRow(ctx, `
		INSERT INTO lesson_progress (user_id, lesson_id, completed, accuracy, xp_earned, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, lesson_id) DO UPDATE SET
			completed = EXCLUDED.completed,
			accuracy = EXCLUDED.accuracy,
			xp_earned = EXCLUDED.xp_earned,
			completed_at = EXCLUDED.completed_at,
			updated_at = NOW()
		RETURNING `+lessonColumns,
		userID, lessonID, rec.Completed, rec.Accuracy, rec.XPEarned, rec.CompletedAt))
	if err != nil {
		return nil, fmt.Errorf("upsert lesson progress: %w", err)
	}
	return lp, nil
}

// ResetUser deletes the user's records in one transaction.
func (s *Store) ResetUser(ctx context.Context, userID string) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM lesson_progress WHERE user_id = $1", userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, "DELETE FROM user_progress WHERE user_id = $1", userID)
		return err
	})
	if err != nil {
		return fmt.Errorf("reset user: %w", err)
	}
	return nil
}
