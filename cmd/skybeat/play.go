package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skybeat/internal/feed"
	"github.com/vovakirdan/skybeat/internal/games/skybeat"
	"github.com/vovakirdan/skybeat/internal/platform/tui"
	"github.com/vovakirdan/skybeat/internal/registry"
)

var (
	flagDifficulty string
	flagEndless    bool
	flagFeedAddr   string
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing a campaign level, or the endless mode with --endless.
Without a level ID the first campaign level is played.

Controls:
  Space/W/Up     - Jump (press again in the air to air-jump)
  A/D/Left/Right - Dash
  P              - Pause
  R              - Restart (after game over)
  Esc/B          - Leave (when paused or after game over)
  Ctrl+S         - Save a screenshot
  Q/Ctrl+C       - Quit

Difficulty options:
  easy   - Extra air jump, slower scroll
  normal - Default settings
  hard   - One air jump, faster scroll
  fixed  - No progression in endless mode

Spectators:
  --feed :8080 serves msgpack frame snapshots on ws://host:8080/ws

Examples:
  skybeat play
  skybeat play 02-crumble-run --difficulty easy
  skybeat play --endless --seed 7
  skybeat play --endless --feed :8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Play the endless mode")
	playCmd.Flags().StringVar(&flagFeedAddr, "feed", "", "Serve a spectator feed on this address (e.g. :8080)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	defer closeLogFile()

	env, err := loadEnv(flagDifficulty, uiLogger)
	if err != nil {
		return err
	}

	cfg := runtimeConfig()
	gameID := skybeat.CampaignID
	if flagEndless {
		gameID = skybeat.EndlessID
	} else if len(args) == 1 {
		cfg.LevelID = args[0]
		if _, err := env.Levels.LoadByID(cfg.LevelID); err != nil {
			return fmt.Errorf("%w (run 'skybeat levels list' to see level IDs)", err)
		}
	}

	game, err := registry.Create(gameID, env)
	if err != nil {
		return err
	}

	opts := tui.Options{Logger: uiLogger}
	if store := openStoreOrWarn(); store != nil {
		defer store.Close()
		opts.Store = store
	}

	if flagFeedAddr != "" {
		hub := feed.NewHub(feed.DefaultHubConfig(), uiLogger)
		hub.Start()
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			if err := hub.ListenAndServe(ctx, flagFeedAddr); err != nil {
				uiLogger.Error("feed server stopped", "error", err)
			}
		}()
		opts.Hub = hub
	}

	return tui.Run(game, cfg, opts)
}
