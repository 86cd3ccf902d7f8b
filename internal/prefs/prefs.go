// Package prefs holds presentation preferences and the preset rules that
// govern them. The values are persisted by the store but interpreted only
// by rendering collaborators.
package prefs

import (
	"fmt"
	"time"

	"github.com/abhisek/habitrpg/internal/queue"
)

// PresetMode selects a sensory bundle.
type PresetMode string

const (
	PresetCalm   PresetMode = "calm"
	PresetSpark  PresetMode = "spark"
	PresetCustom PresetMode = "custom"
)

// ParsePresetMode decodes a stored preset mode.
func ParsePresetMode(s string) (PresetMode, error) {
	switch m := PresetMode(s); m {
	case PresetCalm, PresetSpark, PresetCustom:
		return m, nil
	}
	return "", fmt.Errorf("unknown preset mode: %q", s)
}

// Label returns a display label for the mode.
func (m PresetMode) Label() string {
	switch m {
	case PresetCalm:
		return "Calm"
	case PresetSpark:
		return "Spark"
	case PresetCustom:
		return "Custom"
	default:
		return string(m)
	}
}

// Sensory level bounds. Motion: off/low/full. Sound: off/minimal/rich.
// Density: compact/comfortable/spacious.
const (
	MinLevel = 0
	MaxLevel = 2
)

// Preferences is the singleton presentation preference row.
type Preferences struct {
	PresetMode             PresetMode
	LastNonCustomPreset    PresetMode
	MotionLevel            int
	SoundLevel             int
	DensityLevel           int
	QueueMode              queue.Filter
	PromptConcurrencyLimit int
	NudgeCooldownSeconds   int
	UpdatedAt              time.Time
}

// Default returns the preferences of a fresh install.
func Default() Preferences {
	return Preferences{
		PresetMode:             PresetCalm,
		LastNonCustomPreset:    PresetCalm,
		MotionLevel:            0,
		SoundLevel:             0,
		DensityLevel:           2,
		QueueMode:              queue.FilterMixed,
		PromptConcurrencyLimit: 2,
		NudgeCooldownSeconds:   30,
	}
}

// ApplyPreset switches to mode. Calm and Spark overwrite the sensory
// levels and become the last non-custom preset; Custom only clamps.
func (p *Preferences) ApplyPreset(mode PresetMode) {
	p.PresetMode = mode
	switch mode {
	case PresetCalm:
		p.MotionLevel, p.SoundLevel, p.DensityLevel = 0, 0, 2
		p.LastNonCustomPreset = PresetCalm
	case PresetSpark:
		p.MotionLevel, p.SoundLevel, p.DensityLevel = 1, 1, 1
		p.LastNonCustomPreset = PresetSpark
	default:
		p.clamp()
	}
}

// ApplySensoryOverride sets explicit levels and switches to Custom.
func (p *Preferences) ApplySensoryOverride(motion, sound, density int) {
	p.MotionLevel, p.SoundLevel, p.DensityLevel = motion, sound, density
	p.clamp()
	p.PresetMode = PresetCustom
}

// RestoreLastNonCustomPreset reapplies the last Calm or Spark bundle.
func (p *Preferences) RestoreLastNonCustomPreset() {
	p.ApplyPreset(p.LastNonCustomPreset)
}

func (p *Preferences) clamp() {
	p.MotionLevel = clampLevel(p.MotionLevel)
	p.SoundLevel = clampLevel(p.SoundLevel)
	p.DensityLevel = clampLevel(p.DensityLevel)
}

func clampLevel(v int) int {
	return min(max(v, MinLevel), MaxLevel)
}

// EffectTier is how much celebration a reward gets.
type EffectTier string

const (
	EffectOff  EffectTier = "off"
	EffectLow  EffectTier = "low"
	EffectFull EffectTier = "full"
)

// RewardEffectTier resolves the effect tier from motion and sound levels.
func RewardEffectTier(motion, sound int) EffectTier {
	if motion <= 0 && sound <= 0 {
		return EffectOff
	}
	if motion >= 2 || sound >= 2 {
		return EffectFull
	}
	return EffectLow
}
