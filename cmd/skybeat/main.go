// skybeat is a vertical auto-scrolling rhythm platformer for the terminal.
//
// Usage:
//
//	skybeat list                 - List modes and campaign levels
//	skybeat play [level]         - Play a campaign level (or --endless)
//	skybeat menu                 - Pick levels interactively
//	skybeat levels list|validate|lint
//	skybeat sim <script.yaml>    - Replay an input script headlessly
//	skybeat scores [level]       - Show recorded runs
//	skybeat serve                - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for endless runs
//	--db <dsn>         - SQLite path or postgres:// URL (default: ~/.skybeat/runs.db)
//	--config <path>    - Game config YAML
//	--levels <dir>     - Level directory instead of the built-in campaign
//	--log-level <lvl>  - debug, info, warn or error
//	--log-file <path>  - Log destination while a terminal UI is running
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import modes to register them
	_ "github.com/vovakirdan/skybeat/internal/games/skybeat"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLevels   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skybeat",
	Short: "Skybeat - climb an endless tower to the beat",
	Long: `Skybeat is a vertical auto-scrolling platformer played in the terminal.
The world scrolls upward; land on platforms, chain combos, dodge hazards
and reach the goal line, or climb as far as you can in endless mode.

Available commands:
  list     - Show modes and campaign levels
  play     - Play a level directly
  menu     - Interactive level picker
  levels   - Inspect, validate and lint level files
  sim      - Replay an input script without a terminal
  scores   - View recorded runs
  serve    - Start SSH server for remote play

Examples:
  skybeat play
  skybeat play 03-hazard-garden --difficulty hard
  skybeat play --endless --seed 42 --feed :8080
  skybeat levels lint --levels ./my-levels
  skybeat serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for endless runs (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.skybeat/runs.db", "SQLite path or postgres:// URL for run storage")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Level directory (default: built-in campaign)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file used while a terminal UI is running")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
