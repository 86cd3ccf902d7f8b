package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/habitrpg/internal/queue"
)

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, PresetCalm, p.PresetMode)
	assert.Equal(t, PresetCalm, p.LastNonCustomPreset)
	assert.Equal(t, 2, p.DensityLevel)
	assert.Equal(t, queue.FilterMixed, p.QueueMode)
	assert.Equal(t, 2, p.PromptConcurrencyLimit)
	assert.Equal(t, 30, p.NudgeCooldownSeconds)
}

func TestApplyPreset(t *testing.T) {
	p := Default()

	p.ApplyPreset(PresetSpark)
	assert.Equal(t, PresetSpark, p.PresetMode)
	assert.Equal(t, PresetSpark, p.LastNonCustomPreset)
	assert.Equal(t, [3]int{1, 1, 1}, [3]int{p.MotionLevel, p.SoundLevel, p.DensityLevel})

	p.MotionLevel = 7
	p.ApplyPreset(PresetCustom)
	assert.Equal(t, PresetCustom, p.PresetMode)
	assert.Equal(t, PresetSpark, p.LastNonCustomPreset)
	assert.Equal(t, 2, p.MotionLevel)

	p.ApplyPreset(PresetCalm)
	assert.Equal(t, [3]int{0, 0, 2}, [3]int{p.MotionLevel, p.SoundLevel, p.DensityLevel})
}

func TestSensoryOverrideAndRestore(t *testing.T) {
	p := Default()
	p.ApplyPreset(PresetSpark)

	p.ApplySensoryOverride(5, -1, 1)
	assert.Equal(t, PresetCustom, p.PresetMode)
	assert.Equal(t, [3]int{2, 0, 1}, [3]int{p.MotionLevel, p.SoundLevel, p.DensityLevel})

	p.RestoreLastNonCustomPreset()
	assert.Equal(t, PresetSpark, p.PresetMode)
	assert.Equal(t, [3]int{1, 1, 1}, [3]int{p.MotionLevel, p.SoundLevel, p.DensityLevel})
}

func TestRewardEffectTier(t *testing.T) {
	tests := []struct {
		motion, sound int
		want          EffectTier
	}{
		{0, 0, EffectOff},
		{-1, 0, EffectOff},
		{1, 0, EffectLow},
		{1, 1, EffectLow},
		{2, 0, EffectFull},
		{0, 2, EffectFull},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RewardEffectTier(tt.motion, tt.sound), "motion=%d sound=%d", tt.motion, tt.sound)
	}
}

func TestParsePresetMode(t *testing.T) {
	m, err := ParsePresetMode("spark")
	require.NoError(t, err)
	assert.Equal(t, PresetSpark, m)
	assert.Equal(t, "Spark", m.Label())

	_, err = ParsePresetMode("loud")
	assert.Error(t, err)
}
