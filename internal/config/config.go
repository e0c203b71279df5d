package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the config file sptr looks for, walking up from the
// working directory.
const FileName = "sptr.toml"

// Config holds the tool configuration. Flags override file values.
type Config struct {
	Color string      `toml:"color"` // auto|on|off
	Trace TraceConfig `toml:"trace"`
	Run   RunConfig   `toml:"run"`
}

// TraceConfig mirrors the --trace* flags.
type TraceConfig struct {
	Level     string `toml:"level"`     // off|error|step|op|debug
	Mode      string `toml:"mode"`      // stream|ring|both
	Output    string `toml:"output"`    // path, "-" for stderr
	RingSize  int    `toml:"ring_size"` // events kept in ring mode
	Heartbeat string `toml:"heartbeat"` // duration, "" disables
}

// RunConfig mirrors the run command flags.
type RunConfig struct {
	Scenario   string `toml:"scenario"`
	Iterations int    `toml:"iterations"`
	Parallel   int    `toml:"parallel"`
	Aliases    int    `toml:"aliases"`
	Seed       int64  `toml:"seed"`
	Save       bool   `toml:"save"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Color: "auto",
		Trace: TraceConfig{
			Level:    "off",
			Mode:     "ring",
			RingSize: 4096,
		},
		Run: RunConfig{
			Scenario:   "mixed",
			Iterations: 100,
			Parallel:   1,
			Aliases:    8,
		},
	}
}

// HeartbeatInterval parses the heartbeat duration, "" meaning disabled.
func (t TraceConfig) HeartbeatInterval() (time.Duration, error) {
	if t.Heartbeat == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(t.Heartbeat)
	if err != nil {
		return 0, fmt.Errorf("invalid trace heartbeat: %w", err)
	}
	return d, nil
}

// Find walks from startDir towards the filesystem root looking for
// sptr.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load returns the defaults merged with the nearest sptr.toml, if one
// exists. The second result is the path of the loaded file, "" when only
// defaults apply.
func Load(startDir string) (*Config, string, error) {
	cfg := Default()

	path, ok, err := Find(startDir)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return cfg, "", nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, path, nil
}
