package ast

import (
	"mmdcheck/internal/source"
	"mmdcheck/internal/token"
)

// Diagram is the parse result of one diagram source.
type Diagram struct {
	Grammar token.Grammar
	// Type is the header keyword as written ("graph", "stateDiagram-v2", ...).
	Type      string
	Header    source.Span
	Direction string
	Title     string
	AccTitle  string
	AccDescr  string
	// Config holds settings from frontmatter and init directives.
	Config map[string]any
	Root   []StmtID
	Stmts  *Stmts
	Labels *Labels
}

func (d *Diagram) Stmt(id StmtID) *Stmt {
	return d.Stmts.Get(id)
}

func (d *Diagram) Label(id LabelID) *Label {
	if !id.IsValid() {
		return nil
	}
	return d.Labels.Get(id)
}

// Walk visits statements depth-first in source order.
func (d *Diagram) Walk(fn func(id StmtID, s *Stmt, depth int)) {
	var visit func(ids []StmtID, depth int)
	visit = func(ids []StmtID, depth int) {
		for _, id := range ids {
			s := d.Stmt(id)
			if s == nil {
				continue
			}
			fn(id, s, depth)
			visit(s.Children, depth+1)
		}
	}
	visit(d.Root, 0)
}

// Count returns the number of statements of the given kind at any depth.
func (d *Diagram) Count(kind StmtKind) int {
	n := 0
	d.Walk(func(_ StmtID, s *Stmt, _ int) {
		if s.Kind == kind {
			n++
		}
	})
	return n
}

// EachLabel calls fn for every label in allocation order and stops at the
// first error.
func (d *Diagram) EachLabel(fn func(id LabelID, l *Label) error) error {
	labels := d.Labels.Arena.Slice()
	for i := range labels {
		if err := fn(LabelID(i+1), &labels[i]); err != nil {
			return err
		}
	}
	return nil
}
