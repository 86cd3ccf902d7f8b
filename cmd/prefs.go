package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/habitrpg/internal/prefs"
	"github.com/abhisek/habitrpg/internal/queue"
	"github.com/abhisek/habitrpg/internal/ui/views"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change sensory preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(e *env) error {
			e.println(e.view.Preferences(e.rt.Prefs))
			return nil
		})
	},
}

var prefsPresetCmd = &cobra.Command{
	Use:   "preset <calm|spark|custom>",
	Short: "Apply a preset bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := prefs.ParsePresetMode(args[0])
		if err != nil {
			return err
		}
		return withPrefs(cmd, func(e *env) { e.rt.ApplyPreset(mode) })
	},
}

var prefsOverrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Set motion, sound and density levels (0-2) and switch to custom",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(cmd, func(e *env) {
			motion, sound, density := e.rt.Prefs.MotionLevel, e.rt.Prefs.SoundLevel, e.rt.Prefs.DensityLevel
			if cmd.Flags().Changed("motion") {
				motion, _ = cmd.Flags().GetInt("motion")
			}
			if cmd.Flags().Changed("sound") {
				sound, _ = cmd.Flags().GetInt("sound")
			}
			if cmd.Flags().Changed("density") {
				density, _ = cmd.Flags().GetInt("density")
			}
			e.rt.OverrideSensory(motion, sound, density)
		})
	},
}

var prefsRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the last non-custom preset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(cmd, func(e *env) { e.rt.RestorePreset() })
	},
}

var prefsQueueModeCmd = &cobra.Command{
	Use:   "queue-mode <mixed|life_only|learning_only>",
	Short: "Set the saved Today Queue filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := queue.ParseFilter(args[0])
		if err != nil {
			return err
		}
		return withPrefs(cmd, func(e *env) { e.rt.SetQueueMode(f) })
	},
}

// withPrefs applies fn and prints the resulting preferences with the
// theme they select.
func withPrefs(cmd *cobra.Command, fn func(e *env)) error {
	return withRuntime(cmd, func(e *env) error {
		fn(e)
		e.view = views.NewRenderer(e.rt.Prefs, 0)
		e.println(e.view.Preferences(e.rt.Prefs))
		return nil
	})
}

func init() {
	prefsOverrideCmd.Flags().Int("motion", 0, "Motion level: 0 off, 1 low, 2 full")
	prefsOverrideCmd.Flags().Int("sound", 0, "Sound level: 0 off, 1 minimal, 2 rich")
	prefsOverrideCmd.Flags().Int("density", 0, "Density level: 0 compact, 1 comfortable, 2 spacious")

	prefsCmd.AddCommand(prefsPresetCmd)
	prefsCmd.AddCommand(prefsOverrideCmd)
	prefsCmd.AddCommand(prefsRestoreCmd)
	prefsCmd.AddCommand(prefsQueueModeCmd)
}
