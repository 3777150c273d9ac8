package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/rebind/bindings"
	"github.com/milk9111/rebind/config"
	"github.com/milk9111/rebind/logging"
)

var version = "0.1.0"

// env is what every subcommand works on once the root has loaded settings.
type env struct {
	settings *config.Settings
	actions  *config.ActionSet
	store    *bindings.Store
	// loadErr is set when the saved file could not be read.
	loadErr error
}

type rootFlags struct {
	config   string
	actions  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	e := &env{}

	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Inspect and edit saved control bindings",
		Long: `bindings reads the same settings and action set as the game and edits
the saved bindings file without starting it.

Examples:
  bindings path                         # Where bindings are saved
  bindings show                         # Current bindings with defaults
  bindings set Shoot:0 keyboard/k       # Rebind one slot
  bindings reset Shoot:0                # Restore one slot
  bindings reset                        # Restore every slot
  bindings export --clipboard           # Copy the bindings file`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Settings file (default: rebind.yaml in the config dir)")
	cmd.PersistentFlags().StringVarP(&flags.actions, "actions", "a", "", "Action set file (default: settings or embedded set)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newPathCmd(e),
		newShowCmd(e),
		newSetCmd(e),
		newResetCmd(e),
		newExportCmd(e),
		newPathsCmd(),
	)
	return cmd
}

func (e *env) load(cmd *cobra.Command, flags rootFlags) error {
	settings, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	level := settings.Logging.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	logCfg := logging.FromSettings(level, settings.Logging.Format)
	logCfg.Out = cmd.ErrOrStderr()
	logger := logging.Component(logging.New(logCfg), "cli")
	cmd.SetContext(logging.WithContext(cmd.Context(), logger))

	actionsFile := settings.ActionsFile
	if flags.actions != "" {
		actionsFile = flags.actions
	}
	set, err := config.LoadActionSet(actionsFile)
	if err != nil {
		return err
	}

	store := settings.NewStore(bindings.WithLogger(logger))
	registerDefaults(set, store)
	if err := store.LoadAndApply(nil); err != nil {
		logger.Warn().Err(err).Msg("using default bindings")
		e.loadErr = err
	}

	e.settings = settings
	e.actions = set
	e.store = store
	return nil
}

// registerDefaults records the default path of every rebindable slot.
func registerDefaults(set *config.ActionSet, store *bindings.Store) {
	for _, a := range set.Actions {
		if !a.Rebindable {
			continue
		}
		for i, b := range a.Bindings {
			if b.IsComposite() {
				continue
			}
			store.RegisterDefault(bindings.Key{Action: a.ID, Index: i}, b.Path)
		}
	}
}

func (e *env) slot(arg string) (bindings.Key, string, error) {
	k, err := bindings.ParseKey(arg)
	if err != nil {
		return bindings.Key{}, "", err
	}
	def, ok := e.store.Default(k)
	if !ok {
		return bindings.Key{}, "", fmt.Errorf("%s is not a rebindable binding", k)
	}
	return k, def, nil
}
