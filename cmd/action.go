package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/ui/views"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Manage life actions",
}

var actionAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a life action to the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, _ := cmd.Flags().GetInt("priority")
		return withRuntime(cmd, func(e *env) error {
			a := e.rt.AddLifeAction(strings.Join(args, " "), priority)
			e.println(e.view.Success(fmt.Sprintf("Life action created [%s]", a.ID)))
			return nil
		})
	},
}

var actionStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Make a life action the single active unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return startUnit(cmd, args[0])
	},
}

var actionCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Complete a life action and collect XP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return completeUnit(cmd, args[0])
	},
}

func init() {
	actionAddCmd.Flags().Int("priority", domain.DefaultPriority, "Priority score (>= 0)")

	actionCmd.AddCommand(actionAddCmd)
	actionCmd.AddCommand(actionStartCmd)
	actionCmd.AddCommand(actionCompleteCmd)
}

// startUnit starts an action or session. Switching away from another
// active unit pauses it and says so.
func startUnit(cmd *cobra.Command, id string) error {
	return withRuntime(cmd, func(e *env) error {
		prev := e.rt.ActiveUnitID
		if err := e.rt.Start(id); err != nil {
			return err
		}
		if prev != "" && prev != id {
			e.println(e.view.Theme().Hint.Render(views.ActiveConflictPrimary + " Paused " + prev + "."))
		}
		e.println(e.view.Success(views.UnitStartedToast))
		return nil
	})
}

func completeUnit(cmd *cobra.Command, id string) error {
	return withRuntime(cmd, func(e *env) error {
		ev, err := e.rt.Complete(id)
		if err != nil {
			return err
		}
		toast := views.CompletionLifeToast
		if ev.Track == domain.TrackLearning {
			toast = views.CompletionLearningToast
		}
		e.println(e.view.Reward(toast, ev, e.rt.LastReward.Tier))
		return nil
	})
}
