// Command neuralctl is the admin tooling for the Neural Space backend:
// admin accounts, schema migrations, seeding and session housekeeping.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/neuralspace/internal/config"
	"github.com/2beens/neuralspace/internal/db"
	"github.com/2beens/neuralspace/internal/logging"
)

var (
	env        string
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "neuralctl",
	Short: "Neural Space admin tooling",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Setup(logging.LoggerSetupParams{
			ServiceName: "neuralctl",
			LogLevel:    logLevel,
		})
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment [dev | development | prod | production]")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")

	rootCmd.AddCommand(
		createAdminCmd,
		hashPasswordCmd,
		migrateCmd,
		seedCmd,
		cleanSessionsCmd,
		positionsCmd,
	)
}

// openDB loads the config and connects to its database.
func openDB(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DatabaseURL:     cfg.DatabaseURL,
		ApplicationName: "neuralctl",
		MaxConns:        2,
	})
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Debugf("connected to db [%s env]", cfg.Environment)
	return pool, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
