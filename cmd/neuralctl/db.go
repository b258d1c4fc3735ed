package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/2beens/neuralspace/internal/auth"
	"github.com/2beens/neuralspace/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return err
	},
}

var cleanSessionsCmd = &cobra.Command{
	Use:   "clean-sessions",
	Short: "Delete expired admin sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		removed, err := auth.NewSessionRepo(pool).DeleteExpired(cmd.Context(), time.Now().UTC())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired sessions\n", removed)
		return err
	},
}
