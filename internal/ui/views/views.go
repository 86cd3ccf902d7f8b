// Package views renders runtime state for the command line.
package views

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/prefs"
	"github.com/abhisek/habitrpg/internal/queue"
	"github.com/abhisek/habitrpg/internal/rewards"
	"github.com/abhisek/habitrpg/internal/ui/components"
	"github.com/abhisek/habitrpg/internal/ui/layout"
	"github.com/abhisek/habitrpg/internal/ui/theme"
)

// Renderer renders views with one theme at a fixed width.
type Renderer struct {
	t     theme.Theme
	width int
}

// NewRenderer picks the theme for p. A width of 0 uses the default.
func NewRenderer(p prefs.Preferences, width int) *Renderer {
	return &Renderer{t: theme.ForPreferences(p), width: layout.ClampWidth(width)}
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() theme.Theme { return r.t }

// Header renders the title bar for the given user state.
func (r *Renderer) Header(title string, s domain.UserState) string {
	return layout.RenderHeader(r.t, title, s.Level, s.TotalXP, r.width)
}

// Queue renders the Today Queue. activeID marks the active unit.
func (r *Renderer) Queue(items []queue.Item, filter queue.Filter, activeID string) string {
	title := fmt.Sprintf("Today (%s)", FilterLabel(filter))
	if len(items) == 0 {
		hint := TodayEmptyPrimary + " " + TodayEmptySecondary
		if filter == queue.FilterLifeOnly {
			hint = TodayEmptyPrimary + " " + EmptyLifeHint
		}
		return layout.RenderSection(r.t, title, "", hint)
	}

	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		marker := "  "
		if it.UnitID == activeID {
			marker = r.t.Active.Render("▶ ")
		}
		b.WriteString(marker)
		b.WriteString(r.trackStyle(it.Track).Render(fmt.Sprintf("%-9s", TrackLabel(it.Track))))
		b.WriteString(r.t.Body.Render(it.Title))
		b.WriteString(r.t.Hint.Render(fmt.Sprintf("  %s · %d  [%s]", it.State, it.Score(), it.UnitID)))
	}
	return layout.RenderSection(r.t, title, b.String(), "")
}

// Stats renders level progress and per-kind XP totals.
func (r *Renderer) Stats(s domain.UserState, ledger []domain.RewardEvent) string {
	intoLevel := s.TotalXP - (domain.LevelForXP(s.TotalXP)-1)*domain.XPPerLevel
	bar := components.NewProgressBar(
		fmt.Sprintf("Level %d", s.Level),
		float64(intoLevel)/float64(domain.XPPerLevel),
		true,
		r.width,
	)

	lines := []string{
		bar.View(r.t),
		r.t.Body.Render(fmt.Sprintf("Total XP     %d", s.TotalXP)),
		r.t.Life.Render(fmt.Sprintf("Life XP      %d", s.LifeXP)),
		r.t.Learning.Render(fmt.Sprintf("Learning XP  %d", s.LearningXP)),
		r.t.Body.Render(fmt.Sprintf("Recovery     %d tokens", s.RecoveryTokens)),
	}

	totals := rewards.Totals(ledger)
	for _, k := range rewards.AllKinds() {
		if totals[k] == 0 {
			continue
		}
		lines = append(lines, r.t.Hint.Render(fmt.Sprintf("  %-12s %d XP", k.DisplayName(), totals[k])))
	}
	return layout.RenderSection(r.t, "Progress", strings.Join(lines, "\n"), "")
}

// Goals renders learning goals with their sessions.
func (r *Renderer) Goals(goals []domain.LearningGoal, sessions []domain.LearningSession) string {
	var b strings.Builder
	for i, g := range goals {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.t.Learning.Render(g.Title))
		b.WriteString(r.t.Hint.Render(fmt.Sprintf("  [%s]", g.ID)))
		b.WriteString("\n  " + r.t.Body.Render(g.Milestone))
		for _, s := range sessions {
			if s.GoalID != g.ID {
				continue
			}
			b.WriteString("\n    ")
			b.WriteString(r.t.Body.Render(s.Title))
			b.WriteString(r.t.Hint.Render(fmt.Sprintf("  %d min · %s  [%s]", s.DurationMinutes, s.State, s.ID)))
		}
	}
	return layout.RenderSection(r.t, "Learning goals", b.String(), EmptyLearningHint)
}

// Checkpoints renders milestone checkpoints.
func (r *Renderer) Checkpoints(checkpoints []domain.MilestoneCheckpoint) string {
	var b strings.Builder
	for i, c := range checkpoints {
		if i > 0 {
			b.WriteByte('\n')
		}
		style := r.t.Body
		switch c.State {
		case domain.CheckpointConfirmed:
			style = r.t.Success
		case domain.CheckpointRejected:
			style = r.t.Error
		}
		b.WriteString(style.Render(fmt.Sprintf("%-9s", c.State)))
		b.WriteString(r.t.Body.Render(fmt.Sprintf(" %s  %s:%s  confidence %d",
			c.MilestoneKey, c.EvidenceKind, c.EvidenceRef, c.Confidence)))
		b.WriteString(r.t.Hint.Render(fmt.Sprintf("  [%s]", c.ID)))
	}
	return layout.RenderSection(r.t, "Milestone checkpoints", b.String(), EmptyCheckpointsHint)
}

// Preferences renders the sensory preferences.
func (r *Renderer) Preferences(p prefs.Preferences) string {
	lines := []string{
		r.t.Body.Render(fmt.Sprintf("Preset   %s", p.PresetMode.Label())),
		r.t.Body.Render(fmt.Sprintf("Motion   %s", levelName(motionNames, p.MotionLevel))),
		r.t.Body.Render(fmt.Sprintf("Sound    %s", levelName(soundNames, p.SoundLevel))),
		r.t.Body.Render(fmt.Sprintf("Density  %s", levelName(densityNames, p.DensityLevel))),
		r.t.Body.Render(fmt.Sprintf("Queue    %s", FilterLabel(p.QueueMode))),
		r.t.Hint.Render(fmt.Sprintf("Reward effects: %s", prefs.RewardEffectTier(p.MotionLevel, p.SoundLevel))),
	}
	return layout.RenderSection(r.t, "Preferences", strings.Join(lines, "\n"), "")
}

// Reward renders a one-line reward toast.
func (r *Renderer) Reward(toast string, ev domain.RewardEvent, tier prefs.EffectTier) string {
	line := r.t.Success.Render(toast) + " " + r.t.Active.Render(fmt.Sprintf("+%d XP", ev.XPDelta))
	if tier == prefs.EffectFull {
		line = r.t.Card.Render(line)
	}
	return line
}

// Success renders a confirmation line.
func (r *Renderer) Success(msg string) string { return r.t.Success.Render(msg) }

// Error renders an error line.
func (r *Renderer) Error(msg string) string { return r.t.Error.Render(msg) }

// Stack joins blocks with the theme's spacing.
func (r *Renderer) Stack(blocks ...string) string { return layout.Stack(r.t, blocks...) }

func (r *Renderer) trackStyle(t domain.TrackType) lipgloss.Style {
	if t == domain.TrackLearning {
		return r.t.Learning
	}
	return r.t.Life
}

// TrackLabel returns a display label for a track.
func TrackLabel(t domain.TrackType) string {
	if t == domain.TrackLearning {
		return "Learning"
	}
	return "Life"
}

// FilterLabel returns a display label for a queue filter.
func FilterLabel(f queue.Filter) string {
	switch f {
	case queue.FilterLifeOnly:
		return "Life"
	case queue.FilterLearningOnly:
		return "Learning"
	default:
		return "Mixed"
	}
}

var (
	motionNames  = [...]string{"Off", "Low", "Full"}
	soundNames   = [...]string{"Off", "Minimal", "Rich"}
	densityNames = [...]string{"Compact", "Comfortable", "Spacious"}
)

func levelName(names [3]string, level int) string {
	return names[min(max(level, prefs.MinLevel), prefs.MaxLevel)]
}
