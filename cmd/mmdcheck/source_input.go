package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/input"
	"mmdcheck/internal/source"
)

// readSource loads path, or stdin for "" and "-", into a fresh FileSet.
func readSource(ctx context.Context, st *settings, stdin io.Reader, path string) (*source.FileSet, source.FileID, error) {
	opts := input.Options{MaxBytes: st.cfg.Input.MaxBytes}
	fs := source.NewFileSet()
	if path == "" || path == "-" {
		text, err := input.ReadAll(ctx, stdin, opts)
		if err != nil {
			return nil, 0, fmt.Errorf("read stdin: %w", err)
		}
		return fs, fs.AddVirtual("<stdin>", []byte(text)), nil
	}

	// #nosec G304 -- path is provided by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	text, err := input.ReadAll(ctx, f, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	return fs, fs.AddNormalized(path, []byte(text), 0), nil
}

// pointAt copies bag with every span moved to file id. The engine reports
// against a blanked copy of the file with identical offsets.
func pointAt(bag *diag.Bag, id source.FileID) *diag.Bag {
	out := diag.NewBag(maxDiagnostics)
	if bag == nil {
		return out
	}
	for _, d := range bag.Items() {
		d.Primary.File = id
		notes := make([]diag.Note, len(d.Notes))
		for i, n := range d.Notes {
			n.Span.File = id
			notes[i] = n
		}
		d.Notes = notes
		out.Add(d)
	}
	return out
}

const maxDiagnostics = 64
