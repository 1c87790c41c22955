package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/source"
	"mmdcheck/internal/validator"
)

// FileReport is the outcome of checking one file.
type FileReport struct {
	Path        string           `json:"path"`
	Result      validator.Result `json:"result"`
	Cached      bool             `json:"cached,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

// CheckReport is the document written by `check --format json`.
type CheckReport struct {
	Files   []FileReport `json:"files"`
	Valid   int          `json:"valid"`
	Invalid int          `json:"invalid"`
}

// CheckedFile is what the batch driver hands to the formatters.
type CheckedFile struct {
	Path   string
	Result validator.Result
	Bag    *diag.Bag
	Cached bool
}

func BuildCheckReport(files []CheckedFile, fs *source.FileSet, opts JSONOpts) CheckReport {
	report := CheckReport{Files: make([]FileReport, 0, len(files))}
	for _, f := range files {
		fr := FileReport{Path: formatPath(f.Path, opts.PathMode, opts.BaseDir), Result: f.Result, Cached: f.Cached}
		if f.Bag != nil && f.Bag.Len() > 0 {
			fr.Diagnostics = BuildDiagnosticsOutput(f.Bag, fs, opts).Diagnostics
		}
		if f.Result.Valid {
			report.Valid++
		} else {
			report.Invalid++
		}
		report.Files = append(report.Files, fr)
	}
	return report
}

func WriteCheckJSON(w io.Writer, files []CheckedFile, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(BuildCheckReport(files, fs, opts))
}

// WriteCheckPretty prints a verdict per file, the diagnostics of files that
// have any, and a summary line.
func WriteCheckPretty(w io.Writer, files []CheckedFile, fs *source.FileSet, opts PrettyOpts) error {
	invalid := 0
	for _, f := range files {
		if !f.Result.Valid {
			invalid++
		}
		if f.Bag == nil || !f.Bag.HasErrors() {
			if err := WritePrettyResult(w, formatPath(f.Path, opts.PathMode, opts.BaseDir), f.Result, opts); err != nil {
				return err
			}
		}
		Pretty(w, f.Bag, fs, opts)
	}
	_, err := fmt.Fprintf(w, "%d file(s) checked, %d invalid\n", len(files), invalid)
	return err
}

// WriteCheckShort writes one line per diagnostic, sorted by location.
func WriteCheckShort(w io.Writer, files []CheckedFile, fs *source.FileSet) error {
	var all []diag.Diagnostic
	for _, f := range files {
		if f.Bag != nil {
			all = append(all, f.Bag.Items()...)
		}
	}
	out := diag.FormatGoldenDiagnostics(all, fs, false)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
