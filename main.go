package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/milk9111/rebind/config"
	"github.com/milk9111/rebind/logging"
)

func main() {
	configFile := flag.String("config", "", "settings file (default: rebind.yaml in the config dir)")
	actionsFile := flag.String("actions", "", "action set file (default: settings or embedded set)")
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	boot := logging.NewFromEnv()

	settings, err := config.Load(*configFile)
	if err != nil {
		boot.Fatal().Err(err).Msg("load settings")
	}

	logCfg := logging.FromSettings(settings.Logging.Level, settings.Logging.Format)
	if *debug {
		logCfg.Level = zerolog.DebugLevel
	}
	logger := logging.New(logCfg)

	if *actionsFile != "" {
		settings.ActionsFile = *actionsFile
	}
	set, err := config.LoadActionSet(settings.ActionsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("load action set")
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("rebind")

	game, err := NewGame(settings, set, logger, *debug)
	if err != nil {
		logger.Fatal().Err(err).Msg("create game")
	}
	defer game.Close()

	logger.Info().Str("bindings", settings.BindingsPath()).Msg("starting")
	if err := ebiten.RunGame(game); err != nil {
		logger.Error().Err(err).Msg("game stopped")
	}
}
