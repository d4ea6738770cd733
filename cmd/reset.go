package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pennywise/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a profile's progress, or just refill its hearts",
	RunE: func(cmd *cobra.Command, args []string) error {
		heartsOnly, _ := cmd.Flags().GetBool("hearts")
		yes, _ := cmd.Flags().GetBool("yes")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b, err := openBackend(cmd, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if heartsOnly {
			p, err := b.progress.UpsertUserProgress(ctx, cfg.User, progress.Patch{
				Hearts: progress.Int(progress.MaxHearts),
			})
			if err != nil {
				return fmt.Errorf("refill hearts: %w", err)
			}
			fmt.Fprintf(out, "Hearts refilled for %s: %d/%d\n", cfg.User, p.Hearts, progress.MaxHearts)
			return nil
		}

		if !yes {
			fmt.Fprintf(out, "Erase all progress for %q? [y/N] ", cfg.User)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		r, ok := b.progress.(progress.Resetter)
		if !ok {
			return errors.New("this progress backend cannot be reset")
		}
		if err := r.ResetUser(ctx, cfg.User); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		fmt.Fprintf(out, "Progress for %s reset.\n", cfg.User)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("hearts", false, "Only refill hearts; keep XP, streak and lesson history")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
