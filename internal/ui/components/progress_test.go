package components

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/habitrpg/internal/ui/theme"
)

func TestProgressBarCells(t *testing.T) {
	tests := []struct {
		name        string
		bar         ProgressBar
		filled, emp int
	}{
		{"half", NewProgressBar("", 0.5, false, 20), 10, 10},
		{"label and percent", NewProgressBar("XP", 0.25, true, 30), 5, 15},
		{"over full", NewProgressBar("", 1.7, false, 10), 10, 0},
		{"negative", NewProgressBar("", -1, false, 10), 0, 10},
		{"minimum width", NewProgressBar("Level", 1, true, 5), 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, e := tt.bar.Cells()
			assert.Equal(t, tt.filled, f)
			assert.Equal(t, tt.emp, e)
		})
	}
}

func TestProgressBarViewWidth(t *testing.T) {
	bar := NewProgressBar("XP", 0.4, true, 30)
	out := bar.View(theme.New(theme.SignalGarden, 1))
	assert.Equal(t, 30, lipgloss.Width(out))
	assert.Contains(t, out, "40%")
}
