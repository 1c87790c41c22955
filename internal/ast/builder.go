package ast

import (
	"mmdcheck/internal/source"
	"mmdcheck/internal/token"
)

type Hints struct{ Stmts, Labels uint }

// Builder assembles a Diagram while a parser runs.
type Builder struct {
	diagram *Diagram
}

func NewBuilder(g token.Grammar, hints Hints) *Builder {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 6
	}
	if hints.Labels == 0 {
		hints.Labels = 1 << 5
	}
	return &Builder{
		diagram: &Diagram{
			Grammar: g,
			Root:    make([]StmtID, 0),
			Stmts:   NewStmts(hints.Stmts),
			Labels:  NewLabels(hints.Labels),
		},
	}
}

func (b *Builder) Diagram() *Diagram {
	return b.diagram
}

func (b *Builder) NewStmt(kind StmtKind, sp source.Span) StmtID {
	return b.diagram.Stmts.New(kind, sp)
}

func (b *Builder) Stmt(id StmtID) *Stmt {
	return b.diagram.Stmts.Get(id)
}

func (b *Builder) NewLabel(raw string, sp source.Span) LabelID {
	return b.diagram.Labels.New(raw, sp)
}

// Push appends child to parent, or to the diagram root when parent is NoStmtID.
func (b *Builder) Push(parent, child StmtID) {
	if !parent.IsValid() {
		b.diagram.Root = append(b.diagram.Root, child)
		return
	}
	p := b.Stmt(parent)
	p.Children = append(p.Children, child)
}
