package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bombmaster/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over SSH",
	Long: `Start an SSH server that lets users connect and play the simulator.

Each SSH connection gets its own game. All users share one high score board;
the board name is taken from the first three letters of the SSH user name.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.bombmaster/host_key

Examples:
  bombmaster serve                           # Listen on :23234
  bombmaster serve --ssh :2222               # Listen on port 2222
  bombmaster serve --db ./bombmaster.db      # Keep scores in SQLite

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	def := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", def.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(def.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, logger := mustLoad()

	board, store := openScores(cfg.Scores, logger)
	if store != nil {
		defer store.Close()
	}
	sinks := openSinks(cfg, store, logger)
	defer sinks.Close()

	sshCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}
	server, err := tui.NewSSHServer(sshCfg, tui.Options{
		Config:     cfg,
		Difficulty: flagDifficulty,
		Seed:       flagSeed,
		Board:      board,
		Sink:       sinks,
		Logger:     logger.WithPrefix("bombmaster-ssh"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Bomb Master SSH server on %s\n", sshCfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
