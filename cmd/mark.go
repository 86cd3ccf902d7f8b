package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitrpg/internal/domain"
)

var markCmd = &cobra.Command{
	Use:   "mark <id> <partial|paused|missed>",
	Short: "Mark an action or session as partial, paused or missed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := domain.ParseLifecycleState(args[1])
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(e *env) error {
			if err := e.rt.Mark(args[0], state); err != nil {
				return err
			}
			e.println(e.view.Success(fmt.Sprintf("Marked %s", state)))
			return nil
		})
	},
}
