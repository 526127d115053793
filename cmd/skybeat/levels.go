package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skybeat/internal/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Inspect, validate and lint level files",
	Long: `Tools for level authors. Levels are YAML or TOML files; the built-in
campaign is used unless --levels points at a directory.

Examples:
  skybeat levels list
  skybeat levels validate --levels ./my-levels
  skybeat levels validate ./my-levels/tower.yaml
  skybeat levels lint`,
}

var levelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List level files and whether they load",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		results, err := levelLoader().Scan()
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				fmt.Printf("  %-40s  ERROR %v\n", r.Path, r.Err)
				continue
			}
			fmt.Printf("  %-40s  %-20s  %s\n", r.Path, r.Level.ID, r.Level.Title())
		}
		return nil
	},
}

var levelsValidateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate level files",
	Long:  `Validates the named files, or every file under --levels (or the built-in campaign).`,
	RunE: func(_ *cobra.Command, args []string) error {
		var results []levels.Result
		if len(args) > 0 {
			for _, p := range args {
				l, err := levels.ReadFile(p)
				results = append(results, levels.Result{Path: p, Level: l, Err: err})
			}
		} else {
			var err error
			results, err = levelLoader().Scan()
			if err != nil {
				return err
			}
		}

		failed := 0
		for _, r := range results {
			if r.Err == nil {
				fmt.Printf("  ok    %s\n", r.Path)
				continue
			}
			failed++
			fmt.Printf("  FAIL  %s: %v\n", r.Path, r.Err)
			var ve *levels.ValidationError
			if errors.As(r.Err, &ve) {
				logger.Debug("validation failed", "path", r.Path, "code", ve.Code, "field", ve.Field)
			}
		}

		fmt.Printf("\n%d file(s), %d invalid\n", len(results), failed)
		if failed > 0 {
			return fmt.Errorf("%d invalid level file(s)", failed)
		}
		return nil
	},
}

var levelsLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report degenerate content in valid levels",
	Long: `Reports platforms outside the world, hazards overlapping standable
platforms, duplicates, bad start positions and gaps too high to climb.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		env, err := loadEnv("", logger)
		if err != nil {
			return err
		}
		lvls, err := env.Levels.LoadAll()
		if err != nil {
			return err
		}

		total := 0
		for _, l := range lvls {
			warnings := levels.Lint(l, env.Config)
			if len(warnings) == 0 {
				fmt.Printf("  clean  %s\n", l.ID)
				continue
			}
			total += len(warnings)
			fmt.Printf("  %d warning(s)  %s\n", len(warnings), l.ID)
			for _, w := range warnings {
				fmt.Printf("      %s\n", w)
			}
		}
		fmt.Printf("\n%d level(s), %d warning(s)\n", len(lvls), total)
		return nil
	},
}

func init() {
	levelsCmd.AddCommand(levelsListCmd)
	levelsCmd.AddCommand(levelsValidateCmd)
	levelsCmd.AddCommand(levelsLintCmd)
}
