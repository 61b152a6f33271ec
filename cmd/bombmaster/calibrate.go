package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/hardware"
	"github.com/vovakirdan/bombmaster/internal/motion"
)

var flagWatch time.Duration

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Calibrate the accelerometer and watch readings",
	Long: `Calibrates the accelerometer at rest, prints the offset, then prints the
filtered magnitude and shake detector events while you move the device.
Use it to check the wiring and tune the shake thresholds of a difficulty.

Examples:
  bombmaster calibrate
  bombmaster calibrate --watch 30s --difficulty hard`,
	Run: runCalibrate,
}

func init() {
	calibrateCmd.Flags().DurationVar(&flagWatch, "watch", 10*time.Second, "How long to print readings after calibrating")
}

func runCalibrate(_ *cobra.Command, _ []string) {
	cfg, logger := mustLoad()

	diff, err := cfg.Difficulty(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dev, err := hardware.Open(cfg.Hardware, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening hardware: %v\n", err)
		os.Exit(1)
	}
	defer dev.Close()

	clock := core.SystemClock{}
	filter := motion.NewFilter(dev.Accelerometer(), clock, cfg.FilterConfig())
	if !filter.Present() {
		fmt.Fprintln(os.Stderr, "No accelerometer found.")
		os.Exit(1)
	}

	fmt.Println("Calibrating, keep the device still...")
	if !filter.Calibrate() {
		fmt.Fprintln(os.Stderr, "Calibration failed: no readings.")
		os.Exit(1)
	}
	off := filter.Offset()
	fmt.Printf("Offset: x=%.3f y=%.3f z=%.3f m/s²\n", off.X, off.Y, off.Z)
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, flagWatch)
	defer cancel()

	shakeCfg := cfg.ShakeConfig(diff)
	fmt.Printf("Watching (%s: magnitude > %.1f or change > %.1f triggers a shake)\n",
		diff.Name, shakeCfg.MagnitudeThreshold, shakeCfg.ChangeThreshold)

	detector := motion.NewShakeDetector(shakeCfg, filter.Magnitude(), clock.Now())
	ticker := time.NewTicker(cfg.Runtime.Tick)
	defer ticker.Stop()

	var lastPrint time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			mag := filter.Magnitude()
			switch detector.Evaluate(mag, now) {
			case motion.ShakeStarted:
				fmt.Printf("%8.3f  shake started\n", mag)
			case motion.ShakeConfirmed:
				fmt.Printf("%8.3f  shake confirmed\n", mag)
			}
			if now.Sub(lastPrint) >= 250*time.Millisecond {
				fmt.Printf("%8.3f  accumulated %.2f\n", mag, detector.Accumulated())
				lastPrint = now
			}
		}
	}
}
