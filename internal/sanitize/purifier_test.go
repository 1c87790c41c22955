package sanitize

import (
	"errors"
	"testing"

	"mmdcheck/internal/headless"
)

func boundPurifier(t *testing.T) *Purifier {
	t.Helper()
	w, err := headless.NewWindow(headless.BlankDocument)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	p := New()
	if err := p.Bind(w); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	return p
}

func TestSanitizeTextLevels(t *testing.T) {
	p := boundPurifier(t)
	tests := []struct {
		name  string
		level Level
		in    string
		want  string
	}{
		{"loose keeps markup", LevelLoose, `<b>hi</b>`, `<b>hi</b>`},
		{"loose drops style", LevelLoose, `a<style>x{}</style>b`, `ab`},
		{"strict drops script", LevelStrict, `hi<script>alert(1)</script>`, `hi`},
		{"antiscript drops handlers", LevelAntiscript, `<img src="x" onerror="alert(1)">`, `<img src="x"/>`},
		{"strict drops script urls", LevelStrict, `<a href="java	script:alert(1)">x</a>`, `<a>x</a>`},
		{"sandbox escapes tags but keeps br", LevelSandbox, `<b>a</b><br>c`, `&lt;b&gt;a&lt;/b&gt;<br/>c`},
		{"plain text untouched", LevelStrict, `Start`, `Start`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.SanitizeText(tt.in, Options{Level: tt.level, HTMLLabels: true})
			if err != nil {
				t.Fatalf("SanitizeText: %v", err)
			}
			if got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnboundPurifier(t *testing.T) {
	p := New()
	if p.Ready() {
		t.Fatalf("new purifier is ready")
	}
	if _, err := p.SanitizeText("<b>x</b>", Options{Level: LevelStrict, HTMLLabels: true}); !errors.Is(err, ErrUnbound) {
		t.Errorf("strict err = %v, want ErrUnbound", err)
	}
	got, err := p.SanitizeText("<b>x</b>", Options{Level: LevelLoose, HTMLLabels: true})
	if err != nil || got != "<b>x</b>" {
		t.Errorf("loose = %q, %v; want passthrough", got, err)
	}
	got, err = p.SanitizeText("a<b", Options{Level: LevelSandbox, HTMLLabels: true})
	if err != nil || got != "a&lt;b" {
		t.Errorf("sandbox = %q, %v", got, err)
	}
}

func TestBindRejectsEmptyWindow(t *testing.T) {
	if err := New().Bind(nil); !errors.Is(err, headless.ErrNoBody) {
		t.Fatalf("Bind(nil) = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel(" Strict "); err != nil || l != LevelStrict {
		t.Errorf("ParseLevel = %q, %v", l, err)
	}
	if _, err := ParseLevel("paranoid"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
