package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pennywise/internal/catalog"
)

var playCmd = &cobra.Command{
	Use:   "play [lesson-id]",
	Short: "Start the app, optionally straight into a lesson",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runApp(cmd, nil)
		}
		l, err := catalog.Builtin().Lesson(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q (see `pennywise courses`)", err, args[0])
		}
		return runApp(cmd, &l)
	},
}
