package rewards

import "fmt"

// Config holds XP constants. All values are in experience points.
type Config struct {
	ActionCompletionXP   int `yaml:"action_completion_xp"`
	SessionBaseXP        int `yaml:"session_base_xp"`
	SessionPerTenMinXP   int `yaml:"session_per_ten_minutes_xp"`
	MilestoneConfirmedXP int `yaml:"milestone_checkpoint_confirmed_xp"`
}

// DefaultConfig returns the standard reward table.
func DefaultConfig() Config {
	return Config{
		ActionCompletionXP:   12,
		SessionBaseXP:        16,
		SessionPerTenMinXP:   2,
		MilestoneConfirmedXP: 24,
	}
}

// Validate rejects negative XP constants.
func (c Config) Validate() error {
	vals := map[string]int{
		"action_completion_xp":              c.ActionCompletionXP,
		"session_base_xp":                   c.SessionBaseXP,
		"session_per_ten_minutes_xp":        c.SessionPerTenMinXP,
		"milestone_checkpoint_confirmed_xp": c.MilestoneConfirmedXP,
	}
	for name, v := range vals {
		if v < 0 {
			return fmt.Errorf("rewards.%s must be >= 0, got %d", name, v)
		}
	}
	return nil
}
