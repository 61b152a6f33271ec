package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bombmaster/internal/platform/tui"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Play the keyboard simulator",
	Long: `Play Bomb Master in the terminal. The keyboard drives a simulated
handheld: the arrow keys turn the knob one detent, space presses it and
s shakes the device.

Controls:
  ←/h, →/l   - Turn the knob
  Space      - Press the knob
  S          - Shake
  Tab        - Show the high score board
  R          - New game (after the bomb explodes or is defused)
  Q/Ctrl+C   - Quit

Examples:
  bombmaster sim
  bombmaster sim --difficulty easy --name ABC
  bombmaster sim --seed 42 --sink ws`,
	Run: runSim,
}

func runSim(_ *cobra.Command, _ []string) {
	cfg, logger := mustLoad()

	board, store := openScores(cfg.Scores, logger)
	if store != nil {
		defer store.Close()
	}
	sinks := openSinks(cfg, store, logger)
	defer sinks.Close()

	// Log lines would tear the alternate screen; keep warnings and errors.
	if logger.GetLevel() < log.WarnLevel {
		logger.SetLevel(log.WarnLevel)
	}

	res, over, err := tui.Run(tui.Options{
		Config:     cfg,
		Difficulty: flagDifficulty,
		Player:     flagName,
		Seed:       flagSeed,
		Board:      board,
		Sink:       sinks,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running simulator: %v\n", err)
		os.Exit(1)
	}
	if over {
		fmt.Printf("Final score: %d (%d levels cleared)\n", res.TotalScore, res.LevelsCleared())
	}
}
