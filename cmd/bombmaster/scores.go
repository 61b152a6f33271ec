package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bombmaster/internal/platform/tui"
)

var flagScoresTUI bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top 3 high score board. With a SQLite backend (--db or
scores.backend: sqlite) the recent sessions and overall statistics are
shown as well.

Examples:
  bombmaster scores
  bombmaster scores --db ~/.bombmaster/bombmaster.db
  bombmaster scores --db ~/.bombmaster/bombmaster.db --tui`,
	Run: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in an interactive table")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg, logger := mustLoad()

	board, store := openScores(cfg.Scores, logger)
	if store != nil {
		defer store.Close()
	}

	if flagScoresTUI && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		var history tui.History
		if store != nil {
			history = store
		}
		if err := tui.RunScoreboard(board, history, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("High Scores")
	fmt.Println()

	entries := board.Entries()
	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'bombmaster sim --name ABC' to set the first high score!")
	} else {
		fmt.Printf("  %-4s  %-4s  %s\n", "Rank", "Name", "Score")
		fmt.Printf("  %-4s  %-4s  %s\n", "----", "----", "-----")
		for i, e := range entries {
			fmt.Printf("  %-4d  %-4s  %d\n", i+1, e.Name, e.Score)
		}
	}

	if store == nil {
		return
	}

	sessions, err := store.RecentSessions(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}
	if len(sessions) > 0 {
		fmt.Println()
		fmt.Println("Recent sessions")
		fmt.Println()
		fmt.Printf("  %-16s  %-4s  %-6s  %6s  %6s  %s\n", "Date", "Name", "Mode", "Score", "Levels", "Result")
		for _, s := range sessions {
			result := "exploded"
			if s.MissionComplete {
				result = "defused"
			}
			name := s.Player
			if name == "" {
				name = "---"
			}
			fmt.Printf("  %-16s  %-4s  %-6s  %6d  %6d  %s\n",
				s.CreatedAt.Format("2006-01-02 15:04"), name, s.Difficulty, s.TotalScore, s.LevelsCleared, result)
		}
	}

	stats, err := store.GetStats()
	if err == nil && stats.Sessions > 0 {
		fmt.Println()
		fmt.Printf("Sessions: %d  Best: %d  Average: %.0f  Missions complete: %d\n",
			stats.Sessions, stats.BestScore, stats.AvgScore, stats.Missions)
	}
}
