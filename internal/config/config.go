// Package config loads mmdcheck.toml. Flags given on the command line win over
// file values; the file wins over the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"mmdcheck/internal/sanitize"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = "mmdcheck.toml"

type Config struct {
	Engine EngineConfig `toml:"engine"`
	Input  InputConfig  `toml:"input"`
	Output OutputConfig `toml:"output"`
	Check  CheckConfig  `toml:"check"`
	Log    LogConfig    `toml:"log"`
}

type EngineConfig struct {
	SecurityLevel string `toml:"security_level"`
	HTMLLabels    bool   `toml:"html_labels"`
}

type InputConfig struct {
	MaxBytes int64 `toml:"max_bytes"`
	// Timeout is a Go duration string; empty or "0" disables it.
	Timeout string `toml:"timeout"`
	// StripFences removes Markdown code fences before validating stdin.
	StripFences bool `toml:"strip_fences"`
}

type OutputConfig struct {
	Format   string `toml:"format"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
}

type CheckConfig struct {
	Jobs    int      `toml:"jobs"`
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
	Cache   string   `toml:"cache"`
	UI      string   `toml:"ui"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the settings used when no file is found.
func Default() Config {
	return Config{
		Engine: EngineConfig{SecurityLevel: string(sanitize.LevelLoose), HTMLLabels: true},
		Output: OutputConfig{Format: "json", Color: "auto", PathMode: "auto"},
		Check:  CheckConfig{Include: []string{"**.mmd", "**.mermaid"}, UI: "auto"},
		Log:    LogConfig{Level: "error"},
	}
}

// Find walks up from startDir to locate mmdcheck.toml.
func Find(startDir string) (path string, ok bool, err error) {
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

// Discover loads explicit when set, otherwise the nearest mmdcheck.toml above
// startDir, otherwise the defaults. The returned path is empty for defaults.
func Discover(startDir, explicit string) (Config, string, error) {
	path := explicit
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return Config{}, "", err
		}
		if !ok {
			return Default(), "", nil
		}
		path = found
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// Load decodes path over the defaults and validates the result. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("engine", "security_level") {
		if _, err := sanitize.ParseLevel(cfg.Engine.SecurityLevel); err != nil {
			return Config{}, fmt.Errorf("%s: [engine].security_level: %w", path, err)
		}
	}
	if meta.IsDefined("input", "timeout") {
		if _, err := cfg.Input.TimeoutDuration(); err != nil {
			return Config{}, fmt.Errorf("%s: [input].timeout: %w", path, err)
		}
	}
	if cfg.Input.MaxBytes < 0 {
		return Config{}, fmt.Errorf("%s: [input].max_bytes must not be negative", path)
	}
	if cfg.Check.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	if meta.IsDefined("check", "include") && len(cfg.Check.Include) == 0 {
		return Config{}, fmt.Errorf("%s: [check].include must not be empty", path)
	}
	// relative cache paths are anchored at the config file
	if cfg.Check.Cache != "" && !filepath.IsAbs(cfg.Check.Cache) {
		cfg.Check.Cache = filepath.Join(filepath.Dir(path), cfg.Check.Cache)
	}
	return cfg, nil
}

// TimeoutDuration parses Timeout; an empty value means no timeout.
func (c InputConfig) TimeoutDuration() (time.Duration, error) {
	s := strings.TrimSpace(c.Timeout)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}
