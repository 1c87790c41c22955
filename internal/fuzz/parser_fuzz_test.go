package fuzztests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/engine"
	"mmdcheck/internal/headless"
	"mmdcheck/internal/sanitize"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	w, err := headless.NewWindow(headless.BlankDocument)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	p := sanitize.New()
	if err := p.Bind(w); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	e := engine.New(p)
	e.Initialize(engine.Config{SecurityLevel: sanitize.LevelStrict, HTMLLabels: true})
	return e
}

// FuzzEngineErrors checks that every rejection is one of the engine error
// types and that parse errors carry a usable location.
func FuzzEngineErrors(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		_, err := newEngine(t).Parse(context.Background(), string(input))
		if err == nil {
			return
		}

		var (
			pe *engine.ParseError
			ue *engine.UnknownDiagramError
			fe *engine.FrontmatterError
		)
		switch {
		case errors.As(err, &pe):
			if pe.Hash == nil {
				// a full bag loses the location, never the code
				if pe.Code == diag.UnknownCode {
					t.Fatalf("parse error without code or location")
				}
				return
			}
			if pe.Message == "" || pe.Hash.Line < 1 {
				t.Fatalf("malformed parse error %#v", pe)
			}
			if lines := strings.Count(string(input), "\n") + 1; pe.Hash.Line > lines {
				t.Fatalf("line %d past end of %d-line input", pe.Hash.Line, lines)
			}
		case errors.As(err, &ue), errors.As(err, &fe):
		case errors.Is(err, sanitize.ErrUnbound):
			t.Fatalf("bound purifier reported %v", err)
		default:
			// label sanitizing may fail on markup the purifier rejects
			if !strings.HasPrefix(err.Error(), "sanitize label") {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
		}
	})
}

// FuzzEngineNoHang tests that the engine doesn't hang on any input.
func FuzzEngineNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// unclosed constructs that force the lexer to scan to the end
	f.Add([]byte("graph TD\nA[\"unterminated"))
	f.Add([]byte("sequenceDiagram\nloop\nloop\nloop"))
	f.Add([]byte("%%{init: {'a': 1}"))
	f.Add([]byte("graph TD\nA-->|text"))
	f.Add([]byte("classDiagram\nclass A {\n+x"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		e := newEngine(t)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = e.Parse(context.Background(), string(input))
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("engine hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
