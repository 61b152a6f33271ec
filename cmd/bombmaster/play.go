package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/encoder"
	"github.com/vovakirdan/bombmaster/internal/game"
	"github.com/vovakirdan/bombmaster/internal/hardware"
	"github.com/vovakirdan/bombmaster/internal/motion"
	"github.com/vovakirdan/bombmaster/internal/scoreboard"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play on the hardware",
	Long: `Run the game on the handheld: a rotary encoder with push button on
GPIO and an ADXL345 accelerometer on I2C (pins and bus come from the
hardware section of the config).

The accelerometer is calibrated once at startup; keep the device still.
Press the knob to start a session. After a session ends (or fails to start)
the game waits for the retry delay and then for the next press.

Examples:
  bombmaster play
  bombmaster play --difficulty hard --name ABC
  bombmaster play --sink mqtt --sink ws --db ~/.bombmaster/bombmaster.db`,
	Run: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, logger := mustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, err := hardware.Open(cfg.Hardware, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening hardware: %v\n", err)
		os.Exit(1)
	}
	defer dev.Close()

	board, store := openScores(cfg.Scores, logger)
	if store != nil {
		defer store.Close()
	}
	sinks := openSinks(cfg, store, logger)
	defer sinks.Close()

	clock := core.SystemClock{}
	filter := motion.NewFilter(dev.Accelerometer(), clock, cfg.FilterConfig())
	if filter.Present() {
		logger.Info("calibrating accelerometer, keep the device still")
		if !filter.Calibrate() {
			logger.Warn("calibration failed, using raw readings")
		}
	}
	rig := game.NewRig(encoder.NewSensor(dev.Clock, dev.Data, cfg.Encoder.Debounce), dev.Button, filter)

	rt := cfg.RuntimeConfig(flagSeed)
	logger.Info("polling", "rate_hz", rt.TickRate(), "seed", rt.Seed)

	loop := driver{cfg: cfg, rig: rig, clock: clock, board: board, sink: sinks, logger: logger}
	loop.run(ctx)
	logger.Info("bye")
}

// driver runs sessions on the hardware until interrupted.
type driver struct {
	cfg    config.Config
	rig    *game.Rig
	clock  core.Clock
	board  *scoreboard.Board
	sink   game.Sink
	logger *log.Logger
}

func (d driver) run(ctx context.Context) {
	for {
		d.logger.Info("press the knob to start", "high_score", best(d.board))
		if err := d.rig.WaitForPress(ctx, d.clock, d.cfg.Runtime.Tick); err != nil {
			return
		}

		res, err := d.session(ctx)
		switch {
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			d.logger.Error("session failed", "err", err)
		case res.MissionComplete:
			d.logger.Info("mission complete", "score", res.TotalScore)
		default:
			d.logger.Info("bomb exploded", "score", res.TotalScore, "levels", res.LevelsCleared())
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(d.cfg.Runtime.RetryDelay):
		}
	}
}

func (d driver) session(ctx context.Context) (game.SessionResult, error) {
	sess, err := game.NewSession(game.SessionOptions{
		Config:     d.cfg,
		Difficulty: flagDifficulty,
		Player:     flagName,
		Seed:       flagSeed,
		Rig:        d.rig,
		Clock:      d.clock,
		Board:      d.board,
		Sink:       d.sink,
		Logger:     d.logger,
	})
	if err != nil {
		return game.SessionResult{}, err
	}
	return sess.Run(ctx)
}

// best returns the top score on the board, or 0.
func best(board *scoreboard.Board) int {
	entries := board.Entries()
	if len(entries) == 0 {
		return 0
	}
	return entries[0].Score
}
