package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/pennywise/internal/app"
	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/config"
	"github.com/abhisek/pennywise/internal/llm"
	"github.com/abhisek/pennywise/internal/logger"
	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/screen"
	"github.com/abhisek/pennywise/internal/store"
	"github.com/abhisek/pennywise/internal/tutor"
)

// runApp opens the progress backend, builds dependencies, and launches the
// TUI. A non-nil lesson opens straight into that lesson.
func runApp(cmd *cobra.Command, start *catalog.Lesson) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := fileLogger(cfg)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer log.Sync()

	b, err := openBackend(cmd, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	deps := screen.Deps{
		Aggregator: progress.NewAggregator(b.progress, log),
		Catalog:    catalog.Builtin(),
		UserID:     cfg.User,
		Log:        log,
		Tutor:      newTutor(cmd.Context(), cfg, b.local, log),
	}
	log.Info("starting", "user_id", cfg.User, "remote", cfg.Remote.URL != "", "tutor", deps.Tutor.Enabled())

	var opts []app.Option
	if start != nil {
		opts = append(opts, app.StartLesson(*start))
	}
	return app.Run(deps, opts...)
}

// newTutor builds the optional explanation service. The app works without
// it, so failures are reported and a disabled tutor is returned.
func newTutor(ctx context.Context, cfg config.Config, local *store.Store, log *logger.Logger) *tutor.Service {
	if !cfg.LLM.Enabled() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var events store.EventRepo
	if local != nil {
		events = local.EventRepo()
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, events, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Tutor explanations will be unavailable.")
		return nil
	}

	tcfg := tutor.DefaultConfig()
	if cfg.LLM.Timeout > 0 {
		tcfg.Timeout = cfg.LLM.Timeout
	}
	return tutor.NewService(provider, tcfg)
}
