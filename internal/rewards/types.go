package rewards

// Source types recorded on reward events.
const (
	SourceActionUnit          = "action_unit"
	SourceLearningSession     = "learning_session"
	SourceMilestoneCheckpoint = "milestone_checkpoint"
)

// Kind identifies what earned a reward.
type Kind string

const (
	KindActionCompletion   Kind = "xp.action_completion"
	KindSessionCompletion  Kind = "xp.learning_session_completion"
	KindMilestoneConfirmed Kind = "xp.milestone_checkpoint_confirmed"
)

// AllKinds returns all reward kinds in display order.
func AllKinds() []Kind {
	return []Kind{KindActionCompletion, KindSessionCompletion, KindMilestoneConfirmed}
}

// DisplayName returns a human-readable label for the reward kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindActionCompletion:
		return "Action"
	case KindSessionCompletion:
		return "Session"
	case KindMilestoneConfirmed:
		return "Milestone"
	default:
		return string(k)
	}
}

// MilestoneRewardPrefix prefixes the deterministic id of a milestone reward.
const MilestoneRewardPrefix = "reward_milestone_"

// MilestoneRewardID derives the reward event id for a checkpoint.
func MilestoneRewardID(checkpointID string) string {
	return MilestoneRewardPrefix + checkpointID
}
