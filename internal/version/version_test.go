package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	tests := []string{"0.1.0-dev", "1.2.3", "1.2.3-rc.1+build.123", "dev", "1.2"}
	for _, v := range tests {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) without color = %q", v, got)
		}
	}
}

func TestColoredWithColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	got := Colored("1.2.3-dev")
	if got == "1.2.3-dev" {
		t.Fatal("expected escape sequences")
	}
	if got[len(got)-4:] != "-dev" {
		t.Errorf("suffix lost: %q", got)
	}
}
