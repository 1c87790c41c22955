package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed diagram:
// 1) the header span is non-empty and within file content bounds
// 2) every statement span is non-empty and inside the file
// 3) every label span lies inside the file and holds the unquoted label text
// when that text is a single line
func CheckSpanInvariants(d *ast.Diagram, sf *source.File) error {
	if d == nil || sf == nil {
		return fmt.Errorf("nil diagram or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	inside := func(sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("span %v points to different file id: want=%d", sp, sf.ID)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("span %v beyond content (%d bytes)", sp, lenContent)
		}
		return nil
	}

	// 1) header
	if d.Type != "" {
		if d.Header.Empty() {
			return fmt.Errorf("header span is empty")
		}
		if err := inside(d.Header); err != nil {
			return err
		}
	}

	// 2) statements
	var walkErr error
	d.Walk(func(id ast.StmtID, s *ast.Stmt, _ int) {
		if walkErr != nil {
			return
		}
		if s.Span.Empty() {
			walkErr = fmt.Errorf("empty span for %s stmt id=%d", s.Kind, id)
			return
		}
		if err := inside(s.Span); err != nil {
			walkErr = fmt.Errorf("%s stmt id=%d: %w", s.Kind, id, err)
		}
	})
	if walkErr != nil {
		return walkErr
	}

	// 3) labels
	return d.EachLabel(func(id ast.LabelID, l *ast.Label) error {
		if err := inside(l.Span); err != nil {
			return fmt.Errorf("label id=%d: %w", id, err)
		}
		if l.Quoted || strings.Contains(l.Raw, "\n") {
			return nil
		}
		if text := sf.Slice(l.Span); !strings.Contains(text, l.Raw) {
			return fmt.Errorf("label id=%d: span text %q does not hold %q", id, text, l.Raw)
		}
		return nil
	})
}
