package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "docs", "diagrams")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find = %q, %v, %v", got, ok, err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}

func TestDiscoverExplicitMissing(t *testing.T) {
	if _, _, err := Discover(t.TempDir(), filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestDiscoverExplicit(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[output]\nformat = \"pretty\"\n")
	cfg, got, err := Discover(".", path)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got != path || cfg.Output.Format != "pretty" {
		t.Errorf("Discover = %q, %+v", got, cfg.Output)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[engine]
security_level = "strict"

[input]
max_bytes = 4096
timeout = "2s"

[check]
jobs = 3
include = ["docs/**.mmd"]
cache = ".mmdcheck-cache"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.SecurityLevel != "strict" || !cfg.Engine.HTMLLabels {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if d, _ := cfg.Input.TimeoutDuration(); d != 2*time.Second || cfg.Input.MaxBytes != 4096 {
		t.Errorf("input = %+v", cfg.Input)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("untouched output section lost its default: %+v", cfg.Output)
	}
	if cfg.Check.Jobs != 3 || len(cfg.Check.Include) != 1 {
		t.Errorf("check = %+v", cfg.Check)
	}
	if cfg.Check.Cache != filepath.Join(dir, ".mmdcheck-cache") {
		t.Errorf("cache = %q", cfg.Check.Cache)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad level", "[engine]\nsecurity_level = \"paranoid\"\n", "security_level"},
		{"bad timeout", "[input]\ntimeout = \"soon\"\n", "timeout"},
		{"negative jobs", "[check]\njobs = -1\n", "jobs"},
		{"empty include", "[check]\ninclude = []\n", "include"},
		{"unknown key", "[engine]\ntheme = \"dark\"\n", "unknown keys: engine.theme"},
		{"broken toml", "[engine\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
