package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/source"
	"mmdcheck/internal/validator"
)

func intPtr(v int) *int { return &v }

func TestWriteResult(t *testing.T) {
	tests := []struct {
		name string
		in   validator.Result
		want string
	}{
		{"valid", validator.Result{Valid: true}, `{"valid":true}`},
		{
			name: "invalid with location",
			in: validator.Result{
				Message:  "Parse error on line 1:\ngraph TD; A--\n-------------^\nExpecting 'EDGE_TEXT', got 'EOF'",
				Line:     intPtr(1),
				Token:    "EOF",
				Expected: "'EDGE_TEXT'",
			},
			want: `{"valid":false,"message":"Parse error on line 1:\ngraph TD; A--\n-------------^\nExpecting 'EDGE_TEXT', got 'EOF'","line":1,"token":"EOF","expected":"'EDGE_TEXT'"}`,
		},
		{
			name: "message only",
			in:   validator.Result{Message: "No diagram type detected matching given configuration for text: "},
			want: `{"valid":false,"message":"No diagram type detected matching given configuration for text: "}`,
		},
		{
			name: "markup is not escaped",
			in:   validator.Result{Message: "<b>&</b>"},
			want: `{"valid":false,"message":"<b>&</b>"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteResult(&buf, tt.in); err != nil {
				t.Fatalf("WriteResult: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got  %s\nwant %s", buf.String(), tt.want)
			}
		})
	}
}

func TestWritePrettyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePrettyResult(&buf, "", validator.Result{Valid: true}, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "valid\n" {
		t.Errorf("valid = %q", buf.String())
	}

	buf.Reset()
	res := validator.Result{Message: "bad", Line: intPtr(3), Token: "EOF", Expected: "'end'"}
	if err := WritePrettyResult(&buf, "a.mmd", res, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "a.mmd: invalid (line 3)\nbad\n= token=EOF expected='end'\n"
	if buf.String() != want {
		t.Errorf("invalid = %q, want %q", buf.String(), want)
	}
}

func TestCheckReport(t *testing.T) {
	fs := source.NewFileSet()
	badID := fs.AddVirtual("bad.mmd", []byte("graph TD; A--"))
	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedEOF,
		source.Span{File: badID, Start: 13, End: 13}, "unexpected end of input").WithFound("EOF", "'EDGE_TEXT'"))

	files := []CheckedFile{
		{Path: "ok.mmd", Result: validator.Result{Valid: true}, Cached: true},
		{Path: "bad.mmd", Result: validator.Result{Message: "Parse error", Line: intPtr(1)}, Bag: bag},
	}

	report := BuildCheckReport(files, fs, JSONOpts{IncludePositions: true})
	if report.Valid != 1 || report.Invalid != 1 {
		t.Errorf("summary = %d/%d", report.Valid, report.Invalid)
	}
	if len(report.Files[1].Diagnostics) != 1 || report.Files[0].Diagnostics != nil {
		t.Errorf("diagnostics = %+v", report.Files)
	}

	var buf bytes.Buffer
	if err := WriteCheckPretty(&buf, files, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"ok.mmd: valid", "bad.mmd:1:14: ERROR SYN2002", "2 file(s) checked, 1 invalid"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output lacks %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteCheckShort(&buf, files, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "error SYN2002 bad.mmd:1:14 [EOF]") {
		t.Errorf("short output = %q", buf.String())
	}
}
