package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skybeat/internal/engine"
	"github.com/vovakirdan/skybeat/internal/sim"
)

var flagSimDifficulty string

var simCmd = &cobra.Command{
	Use:   "sim <script.yaml>",
	Short: "Replay an input script without a terminal",
	Long: `Runs a level headlessly from a YAML input script and prints the final
state and a trajectory hash. Identical scripts always print identical hashes.

Script format:
  level: 01-first-steps   # or "endless: true" with "seed: 42"
  frames: 600
  dt_ms: 16               # optional, default 1000/60
  inputs:
    - {frame: 10, action: jump_start}
    - {frame: 22, action: jump_end}
    - {frame: 40, action: dash_right}

Examples:
  skybeat sim replay.yaml
  skybeat sim replay.yaml --difficulty hard`,
	Args: cobra.ExactArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runSim(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	script, err := sim.ParseScript(data)
	if err != nil {
		return err
	}

	env, err := loadEnv(flagSimDifficulty, logger)
	if err != nil {
		return err
	}

	eng := engine.New(env.Config, engine.WithLogger(logger))
	res, err := sim.Run(eng, env.Levels, script)
	if err != nil {
		return err
	}

	st := res.State
	outcome := "running"
	switch {
	case st.Complete:
		outcome = "complete"
	case st.Dead:
		outcome = "dead (" + st.DeathCause.String() + ")"
	}

	fmt.Printf("level      %s\n", res.Level)
	fmt.Printf("frames     %d / %d\n", res.Frames, script.Frames)
	fmt.Printf("outcome    %s\n", outcome)
	fmt.Printf("score      %d\n", st.Score)
	fmt.Printf("coins      %d\n", st.Coins)
	fmt.Printf("max combo  %d\n", st.MaxCombo)
	fmt.Printf("player     x=%.3f y=%.3f\n", res.PlayerX, res.PlayerY)
	fmt.Printf("camera     %.3f\n", res.CameraY)
	fmt.Printf("hash       %016x\n", res.Hash)

	kinds := make([]string, 0, len(res.Events))
	for k := range res.Events {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	fmt.Println("events")
	for _, k := range kinds {
		fmt.Printf("  %-14s %d\n", k, res.Events[k])
	}
	return nil
}
