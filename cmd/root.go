package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pennywise",
	Short: "Bite-sized personal finance lessons in your terminal",
	Long:  "Pennywise — a gamified money course: short quizzes, XP, levels, daily streaks and hearts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (overrides PENNYWISE_CONFIG)")
	flags.String("db", "", "Path to SQLite database file (overrides PENNYWISE_DB)")
	flags.String("user", "", "Profile id to play as (overrides PENNYWISE_USER)")
	flags.String("log-mode", "", "Log format: development or production")
	flags.Bool("guest", false, "Play without saving: progress lives in memory under a fresh guest profile")
	flags.String("remote", "", "Pennywise server URL; progress is read and written over the API")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
