package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skybeat/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List modes and campaign levels",
	Long:  `Shows the registered game modes and the campaign levels they can load.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	games := registry.List()

	fmt.Println("Modes:")
	fmt.Println()
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	lvls, err := levelLoader().LoadAll()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Levels:")
	fmt.Println()
	if len(lvls) == 0 {
		fmt.Println("  No levels found.")
	}
	for _, l := range lvls {
		fmt.Printf("  %-20s  %-20s  %d platforms, goal %.0f\n", l.ID, l.Title(), len(l.Platforms), l.GoalY)
	}

	fmt.Println()
	fmt.Println("Run 'skybeat play <level>' or 'skybeat play --endless' to play.")
	return nil
}
