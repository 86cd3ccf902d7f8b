package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitrpg/internal/app"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Open and migrate the database, then verify the stored user state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		if err := app.StartupCheck(cmd.Context(), dbPath, log); err != nil {
			return fmt.Errorf("startup check failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", dbPath)
		return nil
	},
}
