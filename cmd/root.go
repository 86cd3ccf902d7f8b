package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/habitrpg/internal/config"
	"github.com/abhisek/habitrpg/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "habitrpg",
	Short: "Life and learning momentum tracker",
	Long: "HabitRPG keeps one Today Queue across life actions and learning sessions, " +
		"rewards completed units with XP, and tracks milestone checkpoints.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueue(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HABITRPG_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides HABITRPG_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Minimum log level (debug, info, warn, error)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(actionCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(milestoneCmd)
	rootCmd.AddCommand(prefsCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then HABITRPG_DB or the config file's db_path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
