package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/skybeat/internal/platform/tui"
	"github.com/vovakirdan/skybeat/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a level picker menu",
	Long: `Start skybeat in interactive menu mode.

Use arrow keys or j/k to pick a level, left/right to change difficulty,
Enter to play and Tab for the scoreboard. After a run you return to the
menu.

Examples:
  skybeat menu
  skybeat menu --fps 30
  skybeat menu --db postgres://localhost/skybeat`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	defer closeLogFile()

	env, err := loadEnv("", uiLogger)
	if err != nil {
		return err
	}

	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	for {
		result, err := tui.RunMenu(env, store, cfg)
		if err != nil {
			return err
		}
		cfg = result.Config

		if result.Quit {
			return nil
		}

		if result.WantsScoreboard {
			goBack, err := tui.RunScoreboard(env, store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(result.GameID, result.Env)
		if err != nil {
			return err
		}
		if err := tui.Run(game, cfg, tui.Options{Store: store, Logger: uiLogger}); err != nil {
			return err
		}
		cfg.LevelID = ""
	}
}
