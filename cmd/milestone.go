package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/flow"
	"github.com/abhisek/habitrpg/internal/ui/views"
)

var milestoneCmd = &cobra.Command{
	Use:   "milestone",
	Short: "Submit and review milestone checkpoints",
}

var milestoneSubmitCmd = &cobra.Command{
	Use:   "submit <session-id>",
	Short: "Submit evidence from a session as a milestone candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in flow.CandidateInput
		in.MilestoneKey, _ = cmd.Flags().GetString("key")
		in.EvidenceRef, _ = cmd.Flags().GetString("evidence-ref")
		in.Confidence, _ = cmd.Flags().GetInt("confidence")
		in.Reason, _ = cmd.Flags().GetString("reason")
		if k, _ := cmd.Flags().GetString("evidence-kind"); k != "" {
			kind, err := domain.ParseEvidenceKind(k)
			if err != nil {
				return err
			}
			in.EvidenceKind = kind
		}

		return withRuntime(cmd, func(e *env) error {
			c, err := e.rt.Checkpoint(args[0], "", in)
			if err != nil {
				return err
			}
			e.println(e.view.Success(fmt.Sprintf("%s [%s]", views.MilestoneCandidateToast, c.ID)))
			return nil
		})
	},
}

var milestoneConfirmCmd = &cobra.Command{
	Use:   "confirm <checkpoint-id>",
	Short: "Confirm a milestone checkpoint and collect its reward once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(e *env) error {
			ev, err := e.rt.ConfirmCheckpoint(args[0])
			if err != nil {
				return err
			}
			if ev == nil {
				e.println(e.view.Success(views.MilestoneConfirmedToast))
				return nil
			}
			e.println(e.view.Reward(views.MilestoneConfirmedToast, *ev, e.rt.LastReward.Tier))
			return nil
		})
	},
}

var milestoneRejectCmd = &cobra.Command{
	Use:   "reject <checkpoint-id>",
	Short: "Reject an unconfirmed milestone checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")
		return withRuntime(cmd, func(e *env) error {
			if err := e.rt.RejectCheckpoint(args[0], reason); err != nil {
				return err
			}
			e.println(e.view.Success(views.MilestoneRejectedToast))
			return nil
		})
	},
}

var milestoneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List milestone checkpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		goalID, _ := cmd.Flags().GetString("goal")
		return withRuntime(cmd, func(e *env) error {
			cps := e.rt.Checkpoints
			if goalID != "" {
				cps = nil
				for _, c := range e.rt.Checkpoints {
					if c.GoalID == goalID {
						cps = append(cps, c)
					}
				}
			}
			e.println(e.view.Checkpoints(cps))
			return nil
		})
	},
}

func init() {
	milestoneSubmitCmd.Flags().String("key", "", "Milestone key (default: default)")
	milestoneSubmitCmd.Flags().String("evidence-kind", "", "Evidence kind: note, snippet, exercise or reference (default: snippet)")
	milestoneSubmitCmd.Flags().String("evidence-ref", "", "Evidence reference (default: the session's artifact)")
	milestoneSubmitCmd.Flags().Int("confidence", 0, "Confidence 1-5 (default: 2)")
	milestoneSubmitCmd.Flags().String("reason", "", "Why this is a candidate")

	milestoneRejectCmd.Flags().String("reason", "", "Why the checkpoint was rejected")

	milestoneListCmd.Flags().String("goal", "", "Only list checkpoints for this goal id")

	milestoneCmd.AddCommand(milestoneSubmitCmd)
	milestoneCmd.AddCommand(milestoneConfirmCmd)
	milestoneCmd.AddCommand(milestoneRejectCmd)
	milestoneCmd.AddCommand(milestoneListCmd)
}
