// Package theme defines the two palettes and the styles built from them.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitrpg/internal/prefs"
)

// Palette is a named set of colors.
type Palette struct {
	ID       string
	Primary  color.Color
	Life     color.Color
	Learning color.Color
	Accent   color.Color
	Success  color.Color
	Error    color.Color
	Text     color.Color
	TextDim  color.Color
	BgCard   color.Color
	Border   color.Color
}

// PaperConsole is the low-stimulation palette used by the calm preset.
var PaperConsole = Palette{
	ID:       "paper_console",
	Primary:  lipgloss.Color("#A8A29E"), // Stone
	Life:     lipgloss.Color("#A3B18A"), // Sage
	Learning: lipgloss.Color("#8FA8C8"), // Dusty Blue
	Accent:   lipgloss.Color("#D6C28F"), // Wheat
	Success:  lipgloss.Color("#9DB89A"),
	Error:    lipgloss.Color("#C98C8C"),
	Text:     lipgloss.Color("#E7E5E4"),
	TextDim:  lipgloss.Color("#78716C"),
	BgCard:   lipgloss.Color("#292524"),
	Border:   lipgloss.Color("#44403C"),
}

// SignalGarden is the brighter palette used by spark and custom presets.
var SignalGarden = Palette{
	ID:       "signal_garden",
	Primary:  lipgloss.Color("#8B5CF6"), // Vivid Purple
	Life:     lipgloss.Color("#22C55E"), // Green
	Learning: lipgloss.Color("#14B8A6"), // Teal
	Accent:   lipgloss.Color("#F97316"), // Orange
	Success:  lipgloss.Color("#22C55E"),
	Error:    lipgloss.Color("#F43F5E"),
	Text:     lipgloss.Color("#F8FAFC"),
	TextDim:  lipgloss.Color("#94A3B8"),
	BgCard:   lipgloss.Color("#1E293B"),
	Border:   lipgloss.Color("#334155"),
}

// Theme is a palette plus the styles derived from it.
type Theme struct {
	Palette Palette
	// Gap is the number of blank lines between sections.
	Gap int

	Title    lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
	Life     lipgloss.Style
	Learning lipgloss.Style
	Active   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Card     lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
}

// New builds a Theme from p. density is the preference level 0..2.
func New(p Palette, density int) Theme {
	t := Theme{
		Palette: p,
		Gap:     min(max(density, prefs.MinLevel), prefs.MaxLevel) / 2,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		Body: lipgloss.NewStyle().
			Foreground(p.Text),

		Hint: lipgloss.NewStyle().
			Foreground(p.TextDim).
			Italic(true),

		Life: lipgloss.NewStyle().
			Foreground(p.Life),

		Learning: lipgloss.NewStyle().
			Foreground(p.Learning),

		Active: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),

		ProgressFilled: lipgloss.NewStyle().
			Background(p.Learning),

		ProgressEmpty: lipgloss.NewStyle().
			Background(p.Border),
	}
	if density >= prefs.MaxLevel {
		t.Card = t.Card.Padding(1, 2)
	}
	return t
}

// ForPreferences picks the palette for the preset: calm gets paper
// console, everything else signal garden.
func ForPreferences(p prefs.Preferences) Theme {
	if p.PresetMode == prefs.PresetCalm {
		return New(PaperConsole, p.DensityLevel)
	}
	return New(SignalGarden, p.DensityLevel)
}
