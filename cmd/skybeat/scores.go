package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skybeat/internal/games/skybeat"
	"github.com/vovakirdan/skybeat/internal/storage"
)

var (
	flagScoresEndless bool
	flagScoresLimit   int
	flagScoresStats   bool
	flagScoresClear   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show recorded runs",
	Long: `Display the best runs of a campaign level (all levels when omitted),
or of the endless mode with --endless.

Examples:
  skybeat scores
  skybeat scores 02-crumble-run
  skybeat scores --endless --limit 20
  skybeat scores --stats`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresEndless, "endless", false, "Show endless mode runs")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresStats, "stats", false, "Show per-level statistics instead of runs")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the selected mode's runs")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening run database: %w", err)
	}
	defer store.Close()

	if flagScoresStats {
		return printStats(store)
	}

	gameID, levelID := skybeat.CampaignID, ""
	if flagScoresEndless {
		gameID, levelID = skybeat.EndlessID, "endless"
	} else if len(args) == 1 {
		levelID = args[0]
	}

	if flagScoresClear {
		if err := store.ClearRuns(gameID); err != nil {
			return err
		}
		logger.Info("runs cleared", "game", gameID)
		return nil
	}

	runs, err := store.TopRuns(gameID, levelID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	title := "all levels"
	if levelID != "" {
		title = levelID
	}
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-12s  %-8s  %-5s  %-5s  %-8s  %s\n",
		"Rank", "Level", "Player", "Score", "Coins", "Combo", "Result", "Date")
	fmt.Printf("  %-4s  %-16s  %-12s  %-8s  %-5s  %-5s  %-8s  %s\n",
		"----", "-----", "------", "-----", "-----", "-----", "------", "----")
	for i, r := range runs {
		player := r.Player
		if player == "" {
			player = "local"
		}
		result := "cleared"
		if !r.Completed {
			result = r.DeathCause
		}
		fmt.Printf("  %-4d  %-16s  %-12s  %-8d  %-5d  %-5d  %-8s  %s\n",
			i+1, r.LevelID, player, r.Score, r.Coins, r.MaxCombo, result,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	if best, err := store.HighScore(gameID, levelID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func printStats(store storage.Store) error {
	stats, err := store.Stats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-16s  %5s  %7s  %8s  %8s  %s\n", "Mode", "Level", "Runs", "Cleared", "Best", "Avg", "Last played")
	for _, s := range stats {
		fmt.Printf("  %-16s  %-16s  %5d  %7d  %8d  %8.0f  %s\n",
			s.GameID, s.LevelID, s.Runs, s.Completions, s.BestScore, s.AvgScore,
			s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
