package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mmdcheck/internal/config"
	"mmdcheck/internal/diagfmt"
	"mmdcheck/internal/engine"
	"mmdcheck/internal/observ"
	"mmdcheck/internal/sanitize"
	"mmdcheck/internal/validator"
)

// settings is the merged view of mmdcheck.toml and the command line.
type settings struct {
	cfg     config.Config
	cfgPath string
	level   sanitize.Level
	timeout time.Duration
	log     *logrus.Entry
	// timer is nil unless --timings is set.
	timer *observ.Timer
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()
	explicit, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, cfgPath, err := config.Discover(wd, explicit)
	if err != nil {
		return nil, err
	}

	if flags.Changed("security-level") {
		cfg.Engine.SecurityLevel, _ = flags.GetString("security-level")
	}
	if flags.Changed("max-bytes") {
		cfg.Input.MaxBytes, _ = flags.GetInt64("max-bytes")
	}
	if flags.Changed("strip-fences") {
		cfg.Input.StripFences, _ = flags.GetBool("strip-fences")
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		cfg.Input.Timeout = d.String()
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("color") {
		cfg.Output.Color, _ = flags.GetString("color")
	}

	st := &settings{cfg: cfg, cfgPath: cfgPath}
	if st.level, err = sanitize.ParseLevel(cfg.Engine.SecurityLevel); err != nil {
		return nil, err
	}
	if cfg.Input.MaxBytes < 0 {
		return nil, fmt.Errorf("--max-bytes must not be negative")
	}
	if st.timeout, err = cfg.Input.TimeoutDuration(); err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := readColorMode(cfg.Output.Color); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log.Level, os.Stderr)
	if err != nil {
		return nil, err
	}
	st.log = logger.WithFields(logrus.Fields{
		"run": uuid.NewString(),
		"cmd": cmd.Name(),
	})
	if cfgPath != "" {
		st.log.WithField("config", cfgPath).Debug("loaded configuration")
	}

	if timings, _ := flags.GetBool("timings"); timings {
		st.timer = observ.NewTimer()
	}
	return st, nil
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	if level == "" {
		level = "error"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l, nil
}

// newService builds the validation service for one process.
func (st *settings) newService() *validator.Service {
	return validator.NewService(
		validator.WithConfig(engine.Config{
			StartOnLoad:   false,
			SecurityLevel: st.level,
			HTMLLabels:    st.cfg.Engine.HTMLLabels,
		}),
		validator.WithLogger(st.log),
	)
}

func (st *settings) useColor(f *os.File) bool {
	mode, _ := readColorMode(st.cfg.Output.Color)
	switch mode {
	case modeOn:
		return true
	case modeOff:
		return false
	default:
		return isTerminal(f)
	}
}

func (st *settings) pathMode() diagfmt.PathMode {
	return diagfmt.ParsePathMode(st.cfg.Output.PathMode)
}

// writeTimings prints the phase summary when --timings is set.
func (st *settings) writeTimings(w io.Writer) {
	if err := st.timer.WriteSummary(w); err != nil {
		st.log.WithError(err).Warn("failed to write timings")
	}
}

type switchMode string

const (
	modeAuto switchMode = "auto"
	modeOn   switchMode = "on"
	modeOff  switchMode = "off"
)

func readSwitch(flag, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return modeAuto, nil
	case "on":
		return modeOn, nil
	case "off":
		return modeOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

func readColorMode(value string) (switchMode, error) {
	return readSwitch("color", value)
}
