package cmd

import (
	"errors"
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/habitrpg/internal/app"
	"github.com/abhisek/habitrpg/internal/config"
	"github.com/abhisek/habitrpg/internal/logging"
	"github.com/abhisek/habitrpg/internal/store"
	"github.com/abhisek/habitrpg/internal/ui/views"
)

// env bundles what a command needs once the runtime is loaded.
type env struct {
	cmd  *cobra.Command
	rt   *app.Runtime
	view *views.Renderer
}

// loadConfig reads --config (or HABITRPG_CONFIG) and builds the logger.
func loadConfig(cmd *cobra.Command) (config.Config, *logging.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("HABITRPG_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	level, _ := cmd.Flags().GetString("log-level")
	log, err := logging.NewLeveled(cfg.LogMode, level)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

// withRuntime loads the runtime, runs fn, and persists on the way out so
// seeded defaults and mutations land on disk.
func withRuntime(cmd *cobra.Command, fn func(e *env) error) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}

	ctx := cmd.Context()
	st, err := store.Open(ctx, dbPath, store.WithLogger(log))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	rt := app.New(st, cfg, app.WithLogger(log))
	if err := rt.Load(ctx); err != nil {
		return err
	}

	e := &env{cmd: cmd, rt: rt, view: views.NewRenderer(rt.Prefs, 0)}

	runErr := fn(e)
	if err := rt.Persist(ctx); err != nil {
		e.printErr(views.SaveErrorPrimary + " " + views.SaveErrorSecondary)
		return errors.Join(runErr, err)
	}
	return runErr
}

func (e *env) println(s string) {
	lipgloss.Fprintln(e.cmd.OutOrStdout(), s)
}

func (e *env) printErr(s string) {
	lipgloss.Fprintln(e.cmd.ErrOrStderr(), e.view.Error(s))
}
