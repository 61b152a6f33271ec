package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/bombmaster.yaml
var defaultYAML []byte

// Default returns the built-in configuration of the handheld.
// It mirrors defaults/bombmaster.yaml and is used when the embedded file
// cannot be parsed.
func Default() Config {
	return Config{
		Runtime: RuntimeConfig{
			Tick:             10 * time.Millisecond,
			SnapshotInterval: 50 * time.Millisecond,
			ReactionDelay:    time.Second,
			Countdown:        3 * time.Second,
			RetryDelay:       time.Second,
		},
		Scoring: ScoringConfig{
			TargetScore:    60,
			KnobMultiplier: 30,
			MoveBonus:      10,
			LevelBonus:     50,
		},
		Encoder: EncoderConfig{
			Debounce: time.Millisecond,
		},
		Motion: MotionConfig{
			CalibrationSamples:  10,
			CalibrationInterval: 50 * time.Millisecond,
			Gravity:             9.8,
		},
		Shake: ShakeConfig{
			BigChangeThreshold: 4,
			Window:             200 * time.Millisecond,
			Hold:               1500 * time.Millisecond,
		},
		Difficulties: []Difficulty{
			{Name: "easy", TimeFactor: 1.2, ShakeThreshold: 13, ShakeChangeThreshold: 3},
			{Name: "medium", TimeFactor: 1.0, ShakeThreshold: 13, ShakeChangeThreshold: 3},
			{Name: "hard", TimeFactor: 0.8, ShakeThreshold: 13, ShakeChangeThreshold: 3},
		},
		Levels: []Level{
			{BaseTime: 25.0, Moves: 3},
			{BaseTime: 22.0, Moves: 4},
			{BaseTime: 19.0, Moves: 5},
			{BaseTime: 17.0, Moves: 6},
			{BaseTime: 14.0, Moves: 7},
			{BaseTime: 12.0, Moves: 8},
			{BaseTime: 10.0, Moves: 9},
			{BaseTime: 8.5, Moves: 10},
			{BaseTime: 7.0, Moves: 11},
			{BaseTime: 6.0, Moves: 12},
		},
		Hardware: HardwareConfig{
			ClockPin:  "GPIO17",
			DataPin:   "GPIO27",
			ButtonPin: "GPIO22",
			AccelAddr: 0x53,
		},
		Scores: ScoresConfig{
			Backend: "file",
			Path:    "~/.bombmaster/highscores.txt",
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "bombmaster",
			Topic:    "bombmaster",
		},
		WebSocket: WebSocketConfig{
			Address: ":8089",
			Path:    "/ws",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
