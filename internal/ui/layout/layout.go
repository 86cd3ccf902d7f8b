// Package layout composes themed blocks into command output.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitrpg/internal/ui/theme"
)

const (
	DefaultWidth = 72
	MinWidth     = 40
)

// ClampWidth bounds a requested render width. Zero means DefaultWidth.
func ClampWidth(width int) int {
	if width <= 0 {
		return DefaultWidth
	}
	return max(width, MinWidth)
}

// RenderHeader renders the title line with level and XP on the right.
func RenderHeader(t theme.Theme, title string, level, totalXP, width int) string {
	left := t.Title.Render("HabitRPG") + "  " + t.Body.Render(title)
	right := t.Active.Render(fmt.Sprintf("Lv %d", level)) +
		t.Hint.Render("  ") +
		t.Body.Render(fmt.Sprintf("%d XP", totalXP))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// RenderSection renders a titled block. Empty bodies render the hint
// instead.
func RenderSection(t theme.Theme, title, body, emptyHint string) string {
	if body == "" {
		body = t.Hint.Render(emptyHint)
	}
	return t.Title.Render(title) + "\n" + body
}

// Stack joins blocks separated by the theme's gap.
func Stack(t theme.Theme, blocks ...string) string {
	sep := "\n" + strings.Repeat("\n", t.Gap)
	nonEmpty := blocks[:0:0]
	for _, b := range blocks {
		if b != "" {
			nonEmpty = append(nonEmpty, b)
		}
	}
	return strings.Join(nonEmpty, sep)
}
