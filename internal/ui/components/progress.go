// Package components holds small rendering building blocks.
package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/habitrpg/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// Cells returns the filled and empty cell counts for the bar itself.
func (p ProgressBar) Cells() (filled, empty int) {
	barWidth := p.Width
	if p.Label != "" {
		barWidth -= len([]rune(p.Label)) + 2
	}
	if p.ShowPercent {
		barWidth -= 6 // "  100%"
	}
	barWidth = max(barWidth, 4)

	filled = min(max(int(float64(barWidth)*p.Percent), 0), barWidth)
	return filled, barWidth - filled
}

// View renders the progress bar with t's styles.
func (p ProgressBar) View(t theme.Theme) string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(t.Body.Render(p.Label))
		b.WriteString("  ")
	}

	filled, empty := p.Cells()
	b.WriteString(t.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(t.ProgressEmpty.Render(strings.Repeat(" ", empty)))

	if p.ShowPercent {
		pct := min(max(int(p.Percent*100), 0), 100)
		b.WriteString(t.Hint.Render(fmt.Sprintf("  %3d%%", pct)))
	}
	return b.String()
}
