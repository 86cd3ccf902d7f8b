package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitrpg/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetInt("target")

		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		db, err := store.OpenDB(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		m := store.NewMigrator(db, log)
		before, err := m.ReadSchemaVersion(ctx)
		if err != nil {
			return err
		}
		if err := m.RunMigrations(ctx, target); err != nil {
			return err
		}
		after, err := m.ReadSchemaVersion(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if before == after {
			fmt.Fprintf(out, "schema already at v%d\n", after)
			return nil
		}
		fmt.Fprintf(out, "schema migrated v%d -> v%d\n", before, after)
		return nil
	},
}

func init() {
	migrateCmd.Flags().Int("target", store.CurrentSchemaVersion, "Schema version to migrate to")
}
