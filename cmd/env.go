package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/pennywise/internal/config"
	"github.com/abhisek/pennywise/internal/logger"
	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/remote"
	"github.com/abhisek/pennywise/internal/store"
)

// loadConfig resolves settings as flag > environment > config file >
// defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DB = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.User = v
	}
	if v, _ := cmd.Flags().GetString("log-mode"); v != "" {
		cfg.LogMode = v
	}
	if v, _ := cmd.Flags().GetString("remote"); v != "" {
		cfg.Remote.URL = v
	}
	if guest, _ := cmd.Flags().GetBool("guest"); guest {
		cfg.User = "guest-" + uuid.NewString()[:8]
	}
	return cfg, cfg.Validate()
}

// resolveDBPath returns the configured database path, or the default one
// under the data dir.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// fileLogger writes to pennywise.log in the data dir so log lines never
// land on the TUI's alt screen.
func fileLogger(cfg config.Config) (*logger.Logger, error) {
	dir, err := store.DataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return logger.New(cfg.LogMode, filepath.Join(dir, "pennywise.log"))
}

// backend is the progress store a command works against, plus whatever
// must be closed afterwards.
type backend struct {
	progress progress.Store
	local    *store.Store
}

func (b *backend) Close() error {
	if b.local != nil {
		return b.local.Close()
	}
	return nil
}

// openBackend picks memory for guests, the API for --remote and the local
// SQLite file otherwise.
func openBackend(cmd *cobra.Command, cfg config.Config) (*backend, error) {
	if guest, _ := cmd.Flags().GetBool("guest"); guest {
		return &backend{progress: progress.NewMemoryStore()}, nil
	}

	if cfg.Remote.URL != "" {
		client, err := remote.New(cfg.Remote.URL, remote.StaticToken(cfg.Remote.Token), cfg.Remote.Timeout)
		if err != nil {
			return nil, err
		}
		return &backend{progress: client}, nil
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &backend{progress: st.Progress(), local: st}, nil
}

// loadProgress reads the user's progress without creating it.
func loadProgress(ctx context.Context, s progress.Store, userID string) (progress.UserProgress, error) {
	p, err := s.GetUserProgress(ctx, userID)
	switch {
	case err == nil:
		return *p, nil
	case errors.Is(err, progress.ErrNotFound):
		return progress.Default(userID), nil
	default:
		return progress.UserProgress{}, err
	}
}
