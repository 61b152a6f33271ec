package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the game configuration.
// Search order: customPath -> ~/.bombmaster/config.yaml -> ./configs/bombmaster.yaml -> embedded default
//
// Files are decoded over the embedded defaults, so a file only needs the keys
// it changes. Lists (levels, difficulties) replace the defaults wholesale.
func Load(customPath string) (Config, error) {
	base := embedded()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return base, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decode(data, base)
		if err != nil {
			return base, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decode(data, base); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "bombmaster.yaml")); err == nil {
		if cfg, err := decode(data, base); err == nil {
			return cfg, nil
		}
	}

	return base, nil
}

// embedded parses the embedded default YAML, falling back to Default.
func embedded() Config {
	cfg, err := decode(defaultYAML, Config{})
	if err != nil {
		return Default() // Fallback to hardcoded if embed fails
	}
	return cfg
}

func decode(data []byte, base Config) (Config, error) {
	cfg := base
	// Slices are decoded into fresh storage so base stays untouched.
	cfg.Levels = nil
	cfg.Difficulties = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, err
	}
	if cfg.Levels == nil {
		cfg.Levels = append([]Level(nil), base.Levels...)
	}
	if cfg.Difficulties == nil {
		cfg.Difficulties = append([]Difficulty(nil), base.Difficulties...)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bombmaster", filename)
}

// ExpandPath resolves a leading ~/ against the user's home directory.
func ExpandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
