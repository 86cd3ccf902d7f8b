package cmd

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show level, XP and reward totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(e *env) error {
			e.println(e.view.Stack(
				e.view.Header("Stats", e.rt.State),
				e.view.Stats(e.rt.State, e.rt.Ledger),
			))
			return nil
		})
	},
}
