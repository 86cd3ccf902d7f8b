package domain

import "time"

// Default values applied when a unit is created without explicit input.
const (
	DefaultPriority       = 100
	DefaultRecoveryTokens = 3
	MinConfidence         = 1
	MaxConfidence         = 5
	XPPerLevel            = 100
)

// Habit is a recurring life routine.
type Habit struct {
	ID        string
	Title     string
	Cadence   string
	IsActive  bool
	CreatedAt time.Time
}

// Quest is a larger objective on either track.
type Quest struct {
	ID          string
	Title       string
	Track       TrackType
	IsCompleted bool
	CreatedAt   time.Time
}

// ActionUnit is a life-track unit of work.
type ActionUnit struct {
	ID          string
	ParentID    string
	Title       string
	Track       TrackType
	Status      ActionStatus
	State       LifecycleState
	Priority    int
	StartedAt   time.Time
	CompletedAt time.Time
}

// LearningGoal is a durable learning objective.
type LearningGoal struct {
	ID         string
	Title      string
	Milestone  string
	Confidence int
	CreatedAt  time.Time
}

// LearningSession is a learning-track unit of work.
type LearningSession struct {
	ID              string
	GoalID          string
	Title           string
	State           LifecycleState
	Priority        int
	DurationMinutes int
	ArtifactKind    string
	ArtifactRef     string
	CheckpointNote  string
	StartedAt       time.Time
	CompletedAt     time.Time
}

// MilestoneCheckpoint is evidence submitted against a learning session.
// RewardEventID is assigned once, on confirmation.
type MilestoneCheckpoint struct {
	ID              string
	GoalID          string
	SessionID       string
	MilestoneKey    string
	State           CheckpointState
	EvidenceKind    EvidenceKind
	EvidenceRef     string
	Confidence      int
	CandidateReason string
	RewardEventID   string
	SubmittedAt     time.Time
	ReviewedAt      time.Time
	ConfirmedAt     time.Time
	RejectedAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserState is the singleton progress aggregate.
type UserState struct {
	Level          int
	TotalXP        int
	LifeXP         int
	LearningXP     int
	RecoveryTokens int
}

// NewUserState returns the state of a user with no progress.
func NewUserState() UserState {
	return UserState{Level: 1, RecoveryTokens: DefaultRecoveryTokens}
}

// RewardEvent is an immutable ledger entry recording an XP grant.
type RewardEvent struct {
	ID         string
	SourceType string
	SourceID   string
	Track      TrackType
	XPDelta    int
	Kind       string
	CreatedAt  time.Time
}

// LevelForXP returns floor(totalXP/100) + 1.
func LevelForXP(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return totalXP/XPPerLevel + 1
}

// ClampPriority clamps a priority score to be non-negative.
func ClampPriority(p int) int {
	return max(p, 0)
}

// ClampConfidence clamps a checkpoint confidence into [1, 5].
func ClampConfidence(c int) int {
	return min(max(c, MinConfidence), MaxConfidence)
}
