package engine

import (
	"maps"

	"mmdcheck/internal/sanitize"
)

// Config is the engine-wide setting block passed to Initialize.
type Config struct {
	// StartOnLoad is kept for compatibility with embedders that render on load;
	// the engine itself never renders.
	StartOnLoad   bool
	SecurityLevel sanitize.Level
	HTMLLabels    bool
}

// DefaultConfig is what an engine uses before Initialize.
func DefaultConfig() Config {
	return Config{
		StartOnLoad:   true,
		SecurityLevel: sanitize.LevelStrict,
		HTMLLabels:    true,
	}
}

// secureKeys cannot be changed from inside a diagram.
var secureKeys = map[string]bool{
	"securityLevel":  true,
	"secure":         true,
	"startOnLoad":    true,
	"maxTextSize":    true,
	"maxEdges":       true,
	"suppressErrors": true,
}

// mergeConfig copies src into dst, descending into nested maps and skipping
// secure keys at the top level.
func mergeConfig(dst, src map[string]any) {
	for k, v := range src {
		if secureKeys[k] {
			continue
		}
		mergeValue(dst, k, v)
	}
}

func mergeValue(dst map[string]any, k string, v any) {
	sub, ok := v.(map[string]any)
	if !ok {
		dst[k] = v
		return
	}
	cur, ok := dst[k].(map[string]any)
	if !ok {
		dst[k] = maps.Clone(sub)
		return
	}
	for sk, sv := range sub {
		mergeValue(cur, sk, sv)
	}
}

// labelOptions resolves htmlLabels from the diagram config, falling back to
// the engine setting.
func (c Config) labelOptions(diagramCfg map[string]any) sanitize.Options {
	opts := sanitize.Options{Level: c.SecurityLevel, HTMLLabels: c.HTMLLabels}
	if v, ok := diagramCfg["htmlLabels"].(bool); ok {
		opts.HTMLLabels = v
	}
	return opts
}
