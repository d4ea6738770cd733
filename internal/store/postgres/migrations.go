package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type migration struct {
	Version int
	Name    string
	UpSQL   string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "create_progress",
		UpSQL: `
CREATE TABLE IF NOT EXISTS user_progress (
    user_id TEXT PRIMARY KEY,
    current_xp INTEGER NOT NULL DEFAULT 0,
    current_level INTEGER NOT NULL DEFAULT 1,
    current_streak INTEGER NOT NULL DEFAULT 0,
    hearts_remaining INTEGER NOT NULL DEFAULT 5,
    last_heart_loss TIMESTAMP WITH TIME ZONE,
    last_completed_lesson TIMESTAMP WITH TIME ZONE,
    version BIGINT NOT NULL DEFAULT 1,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_xp CHECK (current_xp >= 0),
    CONSTRAINT valid_level CHECK (current_level >= 1),
    CONSTRAINT valid_streak CHECK (current_streak >= 0),
    CONSTRAINT valid_hearts CHECK (hearts_remaining BETWEEN 0 AND 5)
);

CREATE TABLE IF NOT EXISTS lesson_progress (
    user_id TEXT NOT NULL,
    lesson_id TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    accuracy INTEGER NOT NULL DEFAULT 0,
    xp_earned INTEGER NOT NULL DEFAULT 0,
    completed_at TIMESTAMP WITH TIME ZONE,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (user_id, lesson_id),
    CONSTRAINT valid_accuracy CHECK (accuracy BETWEEN 0 AND 100),
    CONSTRAINT valid_xp_earned CHECK (xp_earned >= 0)
);

CREATE INDEX IF NOT EXISTS idx_lesson_progress_user_completed
    ON lesson_progress (user_id, completed_at DESC);
`,
	},
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("postgres: create migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := s.pool.Query(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("postgres: query applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return fmt.Errorf("postgres: scan applied migrations: %w", err)
	}
	for _, v := range versions {
		applied[v] = true
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.UpSQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("postgres: migration %d (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}
