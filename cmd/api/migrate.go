package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskapp/internal/adapter/database/postgres"
	"taskapp/internal/adapter/database/sqlite"
	"taskapp/pkg/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Long: `Apply the embedded schema migrations to the configured database.

DB_DRIVER selects the target: sqlite migrates DATABASE_PATH, postgres
migrates DATABASE_URL. The memory driver has no schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()

			if err != nil {
				return err
			}

			switch cfg.DBDriver {
			case config.DriverSQLite, "":
				db, err := sqlite.New(sqlite.Options{Path: cfg.DatabasePath})

				if err != nil {
					return fmt.Errorf("migrate sqlite: %w", err)
				}

				defer db.Close()
			case config.DriverPostgres:
				if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
					return fmt.Errorf("migrate postgres: %w", err)
				}
			case config.DriverMemory:
				fmt.Fprintln(cmd.OutOrStdout(), "memory driver has nothing to migrate")
				return nil
			default:
				return fmt.Errorf("unknown database driver %q", cfg.DBDriver)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s migrations applied\n", cfg.DBDriver)
			return nil
		},
	}
}
