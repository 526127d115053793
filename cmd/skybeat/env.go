package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/levels"
	"github.com/vovakirdan/skybeat/internal/registry"
	"github.com/vovakirdan/skybeat/internal/storage"
)

// logger writes to stderr; uiLogger is what runs behind a terminal UI.
var (
	logger   *log.Logger
	uiLogger *log.Logger
	logFile  *os.File
)

func setupLogger() error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "skybeat",
		Level:           level,
	})

	// The alternate screen owns stderr while a UI runs.
	var out io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		out = f
	}
	uiLogger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "skybeat",
		Level:           level,
	})
	return nil
}

func closeLogFile() {
	if logFile != nil {
		logFile.Close()
	}
}

// loadEnv builds the mode environment from --config, --levels and an
// optional difficulty preset. An empty preset keeps the config's settings.
func loadEnv(preset string, l *log.Logger) (registry.Env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return registry.Env{}, err
	}

	if preset != "" {
		p, ok := config.ParsePreset(preset)
		if !ok {
			return registry.Env{}, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", preset)
		}
		config.ApplyPreset(&cfg, p)
	}

	return registry.Env{
		Config: cfg,
		Levels: levelLoader(),
		Logger: l,
	}, nil
}

func levelLoader() *levels.Loader {
	if flagLevels != "" {
		return levels.NewLoader(flagLevels)
	}
	return levels.NewBuiltinLoader()
}

// runtimeConfig sizes the screen to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStoreOrWarn opens run storage; play continues without it on failure.
func openStoreOrWarn() storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database, runs will not be saved", "db", flagDBPath, "error", err)
		return nil
	}
	return store
}
