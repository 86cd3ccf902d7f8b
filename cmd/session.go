package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/flow"
	"github.com/abhisek/habitrpg/internal/ui/views"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage learning sessions",
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a learning session to a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := flow.SessionInput{Title: strings.Join(args, " ")}
		in.GoalID, _ = cmd.Flags().GetString("goal")
		in.DurationMinutes, _ = cmd.Flags().GetInt("duration")
		in.Priority, _ = cmd.Flags().GetInt("priority")
		in.ArtifactKind, _ = cmd.Flags().GetString("artifact-kind")
		in.ArtifactRef, _ = cmd.Flags().GetString("artifact-ref")

		return withRuntime(cmd, func(e *env) error {
			s, err := e.rt.AddLearningSession(in)
			if err != nil {
				return err
			}
			e.println(e.view.Success(fmt.Sprintf("Learning session created [%s]", s.ID)))
			return nil
		})
	},
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Make a learning session the single active unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return startUnit(cmd, args[0])
	},
}

var sessionCheckpointCmd = &cobra.Command{
	Use:   "checkpoint <id>",
	Short: "Save a session as a milestone checkpoint candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		return withRuntime(cmd, func(e *env) error {
			c, err := e.rt.Checkpoint(args[0], note, flow.CandidateInput{})
			if err != nil {
				return err
			}
			e.println(e.view.Success(fmt.Sprintf("%s [%s]", views.MilestoneCandidateToast, c.ID)))
			return nil
		})
	},
}

var sessionCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Complete a learning session and collect XP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return completeUnit(cmd, args[0])
	},
}

func init() {
	sessionAddCmd.Flags().String("goal", "", "Goal id (default: first goal)")
	sessionAddCmd.Flags().Int("duration", 25, "Planned duration in minutes")
	sessionAddCmd.Flags().Int("priority", domain.DefaultPriority, "Priority score (>= 0)")
	sessionAddCmd.Flags().String("artifact-kind", "code_snippet", "Kind of artifact the session produces")
	sessionAddCmd.Flags().String("artifact-ref", "", "Reference to the artifact")

	sessionCheckpointCmd.Flags().String("note", "", "Checkpoint note")

	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionCheckpointCmd)
	sessionCmd.AddCommand(sessionCompleteCmd)
}
