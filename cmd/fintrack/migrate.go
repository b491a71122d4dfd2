package main

import (
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/logging"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			db, err := database.OpenMigrationDB(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := logging.WithComponent(slog.Default(), logging.ComponentDatabase)
			if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			db, err := database.OpenMigrationDB(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := database.NewMigrationRunner(db, cfg.Database.Driver,
				logging.WithComponent(slog.Default(), logging.ComponentDatabase))
			version, dirty, err := runner.GetMigrationStatus()
			return printMigrationStatus(cmd, version, dirty, err)
		},
	})

	return cmd
}

func printMigrationStatus(cmd *cobra.Command, version uint, dirty bool, err error) error {
	out := cmd.OutOrStdout()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Fprintln(out, "no migrations applied")
		return nil
	case err != nil:
		return fmt.Errorf("failed to read migration status: %w", err)
	case dirty:
		fmt.Fprintf(out, "version %d (dirty)\n", version)
	default:
		fmt.Fprintf(out, "version %d\n", version)
	}
	return nil
}
