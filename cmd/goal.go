package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage learning goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a learning goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		milestone, _ := cmd.Flags().GetString("milestone")
		if milestone == "" {
			return fmt.Errorf("--milestone is required")
		}
		return withRuntime(cmd, func(e *env) error {
			g, err := e.rt.AddLearningGoal(strings.Join(args, " "), milestone)
			if err != nil {
				return err
			}
			e.println(e.view.Success(fmt.Sprintf("Learning goal created [%s]", g.ID)))
			return nil
		})
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learning goals and their sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(e *env) error {
			e.println(e.view.Goals(e.rt.Goals, e.rt.Sessions))
			return nil
		})
	},
}

func init() {
	goalAddCmd.Flags().String("milestone", "", "Milestone that proves the goal")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
}
