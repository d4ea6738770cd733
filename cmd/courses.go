package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses and lessons with your progress through them",
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

		records, err := b.progress.ListLessonProgress(cmd.Context(), cfg.User)
		if err != nil {
			return fmt.Errorf("list lesson progress: %w", err)
		}
		printCourses(cmd.OutOrStdout(), catalog.Builtin(), records)
		return nil
	},
}

var statusMarks = map[catalog.LessonStatus]string{
	catalog.StatusCompleted: "✓",
	catalog.StatusCurrent:   "▸",
	catalog.StatusLocked:    "·",
}

func printCourses(w io.Writer, cat *catalog.Catalog, records []progress.LessonProgress) {
	completed := progress.CompletedSet(records)
	accuracy := make(map[string]int, len(records))
	for _, r := range records {
		accuracy[r.LessonID] = r.Accuracy
	}

	for i, c := range cat.Courses() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		steps := catalog.Path(c, completed)
		fmt.Fprintf(w, "%s  (%d/%d)\n", c.Title, catalog.CompletedCount(steps), len(steps))
		fmt.Fprintln(w, strings.Repeat("─", 64))
		for _, st := range steps {
			detail := st.Status.String()
			if st.Status == catalog.StatusCompleted {
				detail = fmt.Sprintf("%d%% accuracy", accuracy[st.Lesson.ID])
			}
			fmt.Fprintf(w, " %s %-12s  %-32s  %s\n",
				statusMarks[st.Status], st.Lesson.ID, st.Lesson.Title, detail)
		}
	}
}
