package parser

import (
	"fmt"
	"strings"
	"testing"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/lexer"
	"mmdcheck/internal/source"
	"mmdcheck/internal/testkit"
	"mmdcheck/internal/token"
)

func parseSource(t *testing.T, g token.Grammar, src string) (Result, *diag.Bag, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mmd", []byte(src))
	file := fs.Get(fileID)
	bag := diag.NewBag(16)
	lx := lexer.New(file, lexer.Options{Grammar: g})
	res := ParseFile(lx, Options{Reporter: &diag.BagReporter{Bag: bag}})
	return res, bag, file
}

// parseValid fails the test on any diagnostic or broken span.
func parseValid(t *testing.T, g token.Grammar, src string) Result {
	t.Helper()
	res, bag, file := parseSource(t, g, src)
	if res.Failed || bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for %q: %s", src, diagnosticsSummary(bag))
	}
	if err := testkit.CheckSpanInvariants(res.Diagram, file); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return res
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}
