package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Name     string          `json:"name,omitempty"`
	Target   string          `json:"target,omitempty"`
	Op       string          `json:"op,omitempty"`
	Value    string          `json:"value,omitempty"`
	Label    string          `json:"label,omitempty"`
	Args     []string        `json:"args,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

type DiagramOutput struct {
	Type       string          `json:"type"`
	Grammar    string          `json:"grammar"`
	Direction  string          `json:"direction,omitempty"`
	Title      string          `json:"title,omitempty"`
	AccTitle   string          `json:"acc_title,omitempty"`
	AccDescr   string          `json:"acc_descr,omitempty"`
	Config     map[string]any  `json:"config,omitempty"`
	Statements []ASTNodeOutput `json:"statements"`
}

// FormatDiagramPretty prints the statement tree with box-drawing guides.
func FormatDiagramPretty(w io.Writer, d *ast.Diagram, fs *source.FileSet) error {
	if d == nil {
		return fmt.Errorf("nil diagram")
	}
	header := d.Type
	if d.Direction != "" {
		header += " " + d.Direction
	}
	fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(d.Header, fs))
	formatStmtsPretty(w, d, d.Root, fs, "")
	return nil
}

func formatStmtsPretty(w io.Writer, d *ast.Diagram, ids []ast.StmtID, fs *source.FileSet, prefix string) {
	for i, id := range ids {
		s := d.Stmt(id)
		if s == nil {
			continue
		}
		branch, next := "├─ ", "│  "
		if i == len(ids)-1 {
			branch, next = "└─ ", "   "
		}
		fmt.Fprintf(w, "%s%s%s (span: %s)\n", prefix, branch, describeStmt(d, s), formatSpan(s.Span, fs))
		formatStmtsPretty(w, d, s.Children, fs, prefix+next)
	}
}

func describeStmt(d *ast.Diagram, s *ast.Stmt) string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	if s.Name != "" {
		fmt.Fprintf(&b, " %s", s.Name)
	}
	if s.Op != "" {
		fmt.Fprintf(&b, " %s", s.Op)
	}
	if s.Target != "" {
		fmt.Fprintf(&b, " %s", s.Target)
	}
	if s.Value != "" {
		fmt.Fprintf(&b, " =%s", s.Value)
	}
	if l := d.Label(s.Label); l != nil {
		fmt.Fprintf(&b, " %q", l.Raw)
	}
	if len(s.Args) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(s.Args, ", "))
	}
	return b.String()
}

func formatSpan(sp source.Span, fs *source.FileSet) string {
	if fs == nil {
		return sp.String()
	}
	start, end := fs.Resolve(sp)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

// BuildDiagramOutput converts d for JSON output. Labels appear sanitized
// when the engine filled them, raw otherwise.
func BuildDiagramOutput(d *ast.Diagram) DiagramOutput {
	return DiagramOutput{
		Type:       d.Type,
		Grammar:    d.Grammar.String(),
		Direction:  d.Direction,
		Title:      d.Title,
		AccTitle:   d.AccTitle,
		AccDescr:   d.AccDescr,
		Config:     d.Config,
		Statements: stmtsJSON(d, d.Root),
	}
}

func stmtsJSON(d *ast.Diagram, ids []ast.StmtID) []ASTNodeOutput {
	out := make([]ASTNodeOutput, 0, len(ids))
	for _, id := range ids {
		s := d.Stmt(id)
		if s == nil {
			continue
		}
		node := ASTNodeOutput{
			Type:   s.Kind.String(),
			Span:   s.Span,
			Name:   s.Name,
			Target: s.Target,
			Op:     s.Op,
			Value:  s.Value,
			Args:   s.Args,
		}
		if l := d.Label(s.Label); l != nil {
			node.Label = l.Text
			if node.Label == "" {
				node.Label = l.Raw
			}
		}
		if len(s.Children) > 0 {
			node.Children = stmtsJSON(d, s.Children)
		}
		out = append(out, node)
	}
	return out
}

func FormatDiagramJSON(w io.Writer, d *ast.Diagram) error {
	if d == nil {
		return fmt.Errorf("nil diagram")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(BuildDiagramOutput(d))
}
