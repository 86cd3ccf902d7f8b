package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/habitrpg/internal/queue"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the Today Queue",
	Args:  cobra.NoArgs,
	RunE:  runQueue,
}

func runQueue(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd, func(e *env) error {
		filter := e.rt.Prefs.QueueMode
		if m, _ := cmd.Flags().GetString("mode"); m != "" {
			f, err := queue.ParseFilter(m)
			if err != nil {
				return err
			}
			filter = f
		}
		maxItems, _ := cmd.Flags().GetInt("max")

		items := e.rt.BuildQueue(filter, maxItems)
		e.println(e.view.Stack(
			e.view.Header("Today", e.rt.State),
			e.view.Queue(items, filter, e.rt.ActiveUnitID),
		))
		return nil
	})
}

func init() {
	queueCmd.Flags().String("mode", "", "Queue filter: mixed, life_only or learning_only (default: saved mode)")
	queueCmd.Flags().Int("max", 0, "Maximum number of items (default: configured queue.max_items)")
}
