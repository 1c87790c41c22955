package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mmd", []byte("graph TD\nA-->"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedEOF,
		source.Span{File: fileID, Start: 13, End: 13}, "unexpected end of input").
		WithFound("EOF", "'PIPE'", "'NODE_STRING'", "'NUM'"))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SYN2002" {
		t.Errorf("severity/code = %s %s", d.Severity, d.Code)
	}
	if d.Token != "EOF" || len(d.Expected) != 3 {
		t.Errorf("token/expected = %s %v", d.Token, d.Expected)
	}
	if d.Location.File != "test.mmd" || d.Location.StartLine != 2 || d.Location.StartCol != 5 {
		t.Errorf("location = %+v", d.Location)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mmd", []byte("pie\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.PreBadDirective, source.Span{File: fileID, Start: 0, End: 3}, "w"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	loc := out.Diagnostics[0].Location
	if loc.StartLine != 0 || loc.StartCol != 0 || loc.EndByte != 3 {
		t.Errorf("location = %+v", loc)
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mmd", []byte("graph TD\n%%{a}%%\n%%{b}%%\n"))
	bag := diag.NewBag(10)
	for i := range 5 {
		bag.Add(diag.New(diag.SevWarning, diag.PreBadDirective,
			source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "w"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Errorf("count = %d, want 2", out.Count)
	}
	if empty := BuildDiagnosticsOutput(nil, fs, JSONOpts{}); empty.Diagnostics == nil {
		t.Errorf("nil bag must produce an empty list")
	}
}
