// bombmaster runs the Bomb Master reaction game: on the handheld's GPIO and
// I2C hardware, or as a keyboard simulator in the terminal.
//
// Usage:
//
//	bombmaster play            - Play on the hardware
//	bombmaster sim             - Play the keyboard simulator
//	bombmaster serve           - Serve the simulator over SSH
//	bombmaster levels          - Show the level progression
//	bombmaster scores          - Show high scores and recent sessions
//	bombmaster calibrate       - Calibrate the accelerometer and watch readings
//	bombmaster config          - Print the effective configuration
//
// Global flags:
//
//	--config <path>      - Custom config YAML
//	--db <path>          - Keep scores and session history in a SQLite database
//	--seed <value>       - Set RNG seed for reproducible move sequences
//	--difficulty <name>  - easy, medium or hard
//	--name <ABC>         - Three-letter name for the high score board
//	--sink <id>          - Presentation sink (log, mqtt, ws); repeatable
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/registry"
	"github.com/vovakirdan/bombmaster/internal/scoreboard"
	"github.com/vovakirdan/bombmaster/internal/storage"

	// Import sinks to register them
	_ "github.com/vovakirdan/bombmaster/internal/sink/logsink"
	_ "github.com/vovakirdan/bombmaster/internal/sink/mqtt"
	_ "github.com/vovakirdan/bombmaster/internal/sink/ws"
)

var (
	// Global flags
	flagConfig     string
	flagDBPath     string
	flagSeed       int64
	flagDifficulty string
	flagName       string
	flagSinks      []string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bombmaster",
	Short: "Bomb Master - defuse the bomb before the fuse runs out",
	Long: `Bomb Master is a handheld reaction game. Each level asks for a
sequence of moves (turn the knob left or right, press it, shake the device)
against a shrinking clock. Clear all ten levels to complete the mission.

Available commands:
  play       - Play on the hardware (GPIO encoder and button, ADXL345)
  sim        - Play the keyboard simulator
  serve      - Serve the simulator over SSH
  levels     - Show the level progression
  scores     - Show high scores and recent sessions
  calibrate  - Calibrate the accelerometer and watch readings
  config     - Print the effective configuration

Examples:
  bombmaster sim --difficulty hard --name ABC
  bombmaster play --sink mqtt --sink log
  bombmaster serve --ssh :2222
  bombmaster scores --db ~/.bombmaster/bombmaster.db`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database for scores and history (overrides scores.backend)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, medium, hard")
	rootCmd.PersistentFlags().StringVar(&flagName, "name", "", "Three-letter name for the high score board")
	rootCmd.PersistentFlags().StringSliceVar(&flagSinks, "sink", nil, "Presentation sinks: log, mqtt, ws")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides logging.level)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(calibrateCmd)
}

// mustLoad loads the configuration and the logger, or exits.
func mustLoad() (config.Config, *log.Logger) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.Scores.Backend = "sqlite"
		cfg.Scores.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}
	if flagName != "" && !scoreboard.ValidName(strings.ToUpper(flagName)) {
		fmt.Fprintf(os.Stderr, "Error: name must be three letters A-Z, got %q\n", flagName)
		os.Exit(1)
	}
	return cfg, newLogger(cfg.Logging)
}

func newLogger(cfg config.LoggingConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bombmaster",
	})
	if cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			logger.Warn("unknown log level, using info", "level", cfg.Level)
		} else {
			logger.SetLevel(level)
		}
	}
	return logger
}

// openScores loads the high score board from the configured backend. The
// returned store is non-nil for the sqlite backend and must be closed.
func openScores(cfg config.ScoresConfig, logger *log.Logger) (*scoreboard.Board, *storage.Store) {
	switch cfg.Backend {
	case "sqlite":
		store, err := storage.Open(cfg.Path)
		if err != nil {
			logger.Warn("could not open scores database, scores will not persist", "err", err)
			return scoreboard.Load(nil, logger), nil
		}
		return scoreboard.Load(store, logger), store
	default:
		return scoreboard.Load(scoreboard.NewFileStore(cfg.Path), logger), nil
	}
}

// openSinks starts the presentation sinks named by --sink and, with a
// database, the session recorder.
func openSinks(cfg config.Config, store *storage.Store, logger *log.Logger) *registry.Fanout {
	fanout, err := registry.Open(flagSinks, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, s := range registry.List() {
			fmt.Fprintf(os.Stderr, "  %-6s %s\n", s.ID, s.Title)
		}
		os.Exit(1)
	}
	if store != nil {
		fanout.Add(storage.NewRecorder(store, logger))
	}
	return fanout
}
