package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue an API token for a profile",
	Long: `Issue a bearer token that lets a client read and write one profile's
progress on a pennywise server. The token is signed with server.jwt_secret,
so run this with the same configuration as ` + "`pennywise serve`" + `.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Server.JWTSecret == "" {
			return errors.New("server.jwt_secret (PENNYWISE_JWT_SECRET) is required to issue tokens")
		}
		if err := progress.ValidateUserID(args[0]); err != nil {
			return err
		}

		auth, err := server.NewAuthenticator(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
		if err != nil {
			return err
		}
		token, err := auth.IssueToken(args[0])
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
