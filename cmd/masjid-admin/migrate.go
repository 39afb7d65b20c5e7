package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"masjid/internal/storage"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations to the configured database",
		Long: `Apply the embedded schema migrations for DATA_BACKEND.

sqlite uses SQLITE_DB_PATH, postgres uses DATABASE_URL. Running it on an
up-to-date database is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DataBackend == "memory" {
				return fmt.Errorf("memory backend has no schema to migrate")
			}
			dialect, err := storage.ParseDialect(a.cfg.DataBackend)
			if err != nil {
				return err
			}
			if dialect == storage.SQLite {
				// Open creates the database directory.
				db, err := storage.Open(cmd.Context(), dialect, a.cfg.DSN())
				if err != nil {
					return err
				}
				db.Close()
			}
			if err := storage.RunMigrations(dialect, a.cfg.DSN()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", dialect)
			return nil
		},
	}
}
