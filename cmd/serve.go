package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/config"
	"github.com/abhisek/pennywise/internal/logger"
	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/server"
	"github.com/abhisek/pennywise/internal/store"
	"github.com/abhisek/pennywise/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the progress API over HTTP",
	Long: `Serve the progress API so several devices can share one profile.

Progress is kept in Postgres when server.database_url (PENNYWISE_DATABASE_URL)
is set, and in the local SQLite file otherwise. Clients authenticate with
tokens from ` + "`pennywise token`" + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if cfg.Server.JWTSecret == "" {
			return errors.New("server.jwt_secret (PENNYWISE_JWT_SECRET) is required to serve")
		}

		log, err := logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()

		if cfg.LogMode == "production" || cfg.LogMode == "prod" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, closeStore, err := openServerStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeStore()

		auth, err := server.NewAuthenticator(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
		if err != nil {
			return err
		}
		srv, err := server.New(server.Options{
			Store:        st,
			Catalog:      catalog.Builtin(),
			Auth:         auth,
			Logger:       log,
			AllowOrigins: cfg.Server.AllowOrigins,
		})
		if err != nil {
			return err
		}
		return srv.Run(ctx, cfg.Server.Addr)
	},
}

// openServerStore returns the Postgres store when a database URL is
// configured and the SQLite one otherwise.
func openServerStore(ctx context.Context, cfg config.Config, log *logger.Logger) (progress.Store, func(), error) {
	if cfg.Server.DatabaseURL != "" {
		pg, err := postgres.Open(ctx, cfg.Server.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using postgres store")
		return pg, pg.Close, nil
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	log.Info("using sqlite store", "path", dbPath)
	return st.Progress(), func() { _ = st.Close() }, nil
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
