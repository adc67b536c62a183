package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/storekit/priceindex/pkg/migrate"
)

var (
	migrateDir     string
	migrateName    string
	migrateVersion string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status|version|create|validate]",
	Short: "Manage the index schema with goose",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) > 0 {
			command = args[0]
		}

		// create and validate work on the migrations directory alone.
		switch command {
		case "create":
			if migrateName == "" {
				return fmt.Errorf("missing --name for create")
			}
			path, err := migrate.CreateSQLMigration(migrateDir, migrateName)
			if err != nil {
				return fmt.Errorf("creating migration: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created migration:", path)
			return nil
		case "validate":
			if err := migrate.ValidateDir(migrateDir); err != nil {
				return fmt.Errorf("migration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration validation passed")
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx, "priceindex-migrate")
		if err != nil {
			return err
		}
		defer rt.Close()

		sqlDB, err := rt.client.SQL()
		if err != nil {
			return fmt.Errorf("extracting sql.DB: %w", err)
		}

		if command == "version" && migrateVersion != "" {
			return migrate.MigrateToVersion(ctx, sqlDB, migrateDir, migrateVersion)
		}
		return migrate.Run(ctx, sqlDB, migrateDir, command)
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDir, "dir", migrate.DefaultDir, "goose migrations directory")
	migrateCmd.Flags().StringVar(&migrateName, "name", "", "migration name (for create)")
	migrateCmd.Flags().StringVar(&migrateVersion, "target", "", "target version (YYYYMMDDHHMMSS) for version")
}
