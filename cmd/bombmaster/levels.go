package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bombmaster/internal/config"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the level progression",
	Long: `Shows every level with its move count and the time limit under each
difficulty preset. With --difficulty, only that preset is shown.`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg, _ := mustLoad()

	diffs := cfg.Difficulties
	if flagDifficulty != "" {
		d, err := cfg.Difficulty(flagDifficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		diffs = []config.Difficulty{d}
	}

	fmt.Println("Levels:")
	fmt.Println()

	// Print header
	fmt.Printf("  %-5s  %-5s", "Level", "Moves")
	for _, d := range diffs {
		fmt.Printf("  %8s", strings.ToUpper(d.Name))
	}
	fmt.Println()
	fmt.Printf("  %-5s  %-5s", "-----", "-----")
	for range diffs {
		fmt.Printf("  %8s", "--------")
	}
	fmt.Println()

	// Print levels
	for i, l := range cfg.Levels {
		fmt.Printf("  %-5d  %-5d", i+1, l.Moves)
		for _, d := range diffs {
			fmt.Printf("  %7.1fs", l.TimeLimit(d.TimeFactor).Seconds())
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Printf("Each move scores %d, each cleared level adds %d.\n", cfg.Scoring.MoveBonus, cfg.Scoring.LevelBonus)
	fmt.Println("The last move of every level is a shake.")
}
