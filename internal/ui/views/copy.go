package views

// User-facing copy.
const (
	TodayEmptyPrimary   = "Nothing is queued yet."
	TodayEmptySecondary = "Pick one small action to start momentum."

	ActiveConflictPrimary = "A session is already active."

	CompletionLifeToast     = "Action complete. XP added."
	CompletionLearningToast = "Session complete. Learning XP added."
	MilestoneConfirmedToast = "Milestone confirmed."
	MilestoneCandidateToast = "Checkpoint saved as candidate."
	MilestoneRejectedToast  = "Checkpoint rejected."
	UnitStartedToast        = "Unit started (single-active mode enforced)"

	SaveErrorPrimary   = "We could not save that change."
	SaveErrorSecondary = "Your input is still here."

	EmptyLifeHint        = "Add a habit with one small action."
	EmptyLearningHint    = "Add one C++ milestone to begin."
	EmptyCheckpointsHint = "No checkpoints yet."
)
