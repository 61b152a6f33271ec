// Package config provides YAML-based configuration loading and difficulty
// management for the bomb game.
package config

import "time"

// Config is the complete game configuration.
type Config struct {
	Runtime      RuntimeConfig   `yaml:"runtime"`
	Scoring      ScoringConfig   `yaml:"scoring"`
	Encoder      EncoderConfig   `yaml:"encoder"`
	Motion       MotionConfig    `yaml:"motion"`
	Shake        ShakeConfig     `yaml:"shake"`
	Difficulties []Difficulty    `yaml:"difficulties"`
	Levels       []Level         `yaml:"levels"`
	Hardware     HardwareConfig  `yaml:"hardware"`
	Scores       ScoresConfig    `yaml:"scores"`
	MQTT         MQTTConfig      `yaml:"mqtt"`
	WebSocket    WebSocketConfig `yaml:"websocket"`
	Logging      LoggingConfig   `yaml:"logging"`
}

// RuntimeConfig defines the pacing of the polling loop.
type RuntimeConfig struct {
	Tick             time.Duration `yaml:"tick"`              // Poll interval
	SnapshotInterval time.Duration `yaml:"snapshot_interval"` // Presentation rate limit
	ReactionDelay    time.Duration `yaml:"reaction_delay"`    // Grace period before each move
	Countdown        time.Duration `yaml:"countdown"`         // Pause before each level clock starts
	RetryDelay       time.Duration `yaml:"retry_delay"`       // Driver pause after a failed session
}

// ScoringConfig defines rotation targets and bonuses.
type ScoringConfig struct {
	TargetScore    int `yaml:"target_score"`    // Knob accumulator needed for a rotate move
	KnobMultiplier int `yaml:"knob_multiplier"` // Accumulator increment per matching step
	MoveBonus      int `yaml:"move_bonus"`      // Awarded per successful move
	LevelBonus     int `yaml:"level_bonus"`     // Awarded once per cleared level
}

// EncoderConfig defines rotary encoder decoding.
type EncoderConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// MotionConfig defines accelerometer calibration.
type MotionConfig struct {
	CalibrationSamples  int           `yaml:"calibration_samples"`
	CalibrationInterval time.Duration `yaml:"calibration_interval"`
	Gravity             float64       `yaml:"gravity"`
}

// ShakeConfig defines the difficulty-independent shake detector settings.
type ShakeConfig struct {
	BigChangeThreshold float64       `yaml:"big_change_threshold"`
	Window             time.Duration `yaml:"window"`
	Hold               time.Duration `yaml:"hold"`
}

// Level is one entry of the level progression. Read-only.
type Level struct {
	BaseTime float64 `yaml:"base_time"` // Seconds, before the difficulty time factor
	Moves    int     `yaml:"moves"`
}

// TimeLimit returns the level deadline under the given time factor.
func (l Level) TimeLimit(timeFactor float64) time.Duration {
	return time.Duration(l.BaseTime * timeFactor * float64(time.Second))
}

// Difficulty is chosen once per session and applied to every level.
type Difficulty struct {
	Name                 string  `yaml:"name"`
	TimeFactor           float64 `yaml:"time_factor"`
	ShakeThreshold       float64 `yaml:"shake_threshold"`        // Magnitude trigger
	ShakeChangeThreshold float64 `yaml:"shake_change_threshold"` // Accumulated change trigger
}

// HardwareConfig names the pins and bus of the physical device.
type HardwareConfig struct {
	ClockPin  string `yaml:"clock_pin"`
	DataPin   string `yaml:"data_pin"`
	ButtonPin string `yaml:"button_pin"`
	I2CBus    string `yaml:"i2c_bus"`    // Empty selects the first bus
	AccelAddr uint16 `yaml:"accel_addr"` // ADXL345 address
}

// ScoresConfig selects the high score backend.
type ScoresConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`
}

// MQTTConfig configures the MQTT presentation sink.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"` // Prefix; snapshots go to <topic>/snapshot
}

// WebSocketConfig configures the websocket presentation sink.
type WebSocketConfig struct {
	Address string `yaml:"address"`
	Path    string `yaml:"path"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}
