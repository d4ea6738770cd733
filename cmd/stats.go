package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, level, streak, hearts and completed lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b, err := openBackend(cmd, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		var (
			p       progress.UserProgress
			records []progress.LessonProgress
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			p, err = loadProgress(ctx, b.progress, cfg.User)
			if err != nil {
				return fmt.Errorf("get progress: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			records, err = b.progress.ListLessonProgress(ctx, cfg.User)
			if err != nil {
				return fmt.Errorf("list lesson progress: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}

		printStats(cmd.OutOrStdout(), catalog.Builtin(), p, records)
		return nil
	},
}

func printStats(w io.Writer, cat *catalog.Catalog, p progress.UserProgress, records []progress.LessonProgress) {
	fmt.Fprintf(w, "Profile:  %s\n", p.UserID)
	fmt.Fprintf(w, "Level:    %d (%d XP, %d to Level %d)\n",
		p.Level, p.XP, progress.XPToNextLevel(p.XP), p.Level+1)
	fmt.Fprintf(w, "Streak:   %d day", p.Streak)
	if p.Streak != 1 {
		fmt.Fprint(w, "s")
	}
	fmt.Fprintln(w)
	hearts := max(0, min(p.Hearts, progress.MaxHearts))
	fmt.Fprintf(w, "Hearts:   %s%s %d/%d\n",
		strings.Repeat("♥", hearts), strings.Repeat("♡", progress.MaxHearts-hearts), p.Hearts, progress.MaxHearts)
	if p.LastCompletedLesson != nil {
		fmt.Fprintf(w, "Last:     %s\n", p.LastCompletedLesson.Local().Format("2006-01-02 15:04"))
	}

	var done []progress.LessonProgress
	for _, r := range records {
		if r.Completed {
			done = append(done, r)
		}
	}
	fmt.Fprintf(w, "\nCompleted lessons: %d/%d\n", len(done), cat.LessonCount())
	for _, r := range done {
		title := r.LessonID
		if l, err := cat.Lesson(r.LessonID); err == nil {
			title = l.Title
		}
		fmt.Fprintf(w, "  %-32s  %3d%%  +%d XP\n", title, r.Accuracy, r.XPEarned)
	}
}
