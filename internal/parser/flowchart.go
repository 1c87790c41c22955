package parser

import (
	"strings"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/token"
)

var (
	flowStarters = []string{
		"NODE_STRING", "NUM", "subgraph", "end", "direction", "classDef",
		"class", "style", "linkStyle", "click", "accTitle", "accDescr",
	}
	flowVertexStarters = []string{"NODE_STRING", "NUM"}
	flowAfterLink      = []string{"PIPE", "NODE_STRING", "NUM"}
	flowAfterVertex    = []string{"AMP", "LINK", "START_LINK"}
)

func (p *Parser) parseFlowchart() {
	if !p.header("GRAPH", "graph", "flowchart", "flowchart-elk") {
		return
	}
	if tok := p.lx.Peek(); tok.Kind == token.Word && isDirection(tok.Text) {
		p.advance()
		p.b.Diagram().Direction = tok.Text
	}
	if !p.endStmt("DIR") {
		return
	}
	p.flowStatements(ast.NoStmtID, false)
}

// flowStatements parses until EOF, or until "end" when nested in a subgraph.
func (p *Parser) flowStatements(parent ast.StmtID, nested bool) {
	for !p.failed {
		p.skipSeparators()
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.EOF:
			if nested {
				p.unexpectedCode(diag.SynUnclosedBlock, tok, "end")
			}
			return
		case tok.Is("end"):
			if !nested {
				p.unexpectedCode(diag.SynUnbalancedEnd, tok, flowStarters[:3]...)
				return
			}
			p.advance()
			p.endStmt()
			return
		}
		p.flowStatement(parent)
	}
}

func (p *Parser) flowStatement(parent ast.StmtID) {
	tok := p.lx.Peek()
	switch {
	case tok.Is("subgraph"):
		p.flowSubgraph(parent)
	case tok.Is("direction"):
		p.direction(parent)
	case tok.Is("classDef"):
		if _, ok := p.rawStatement(parent, ast.StmtClassDef, 2, "STYLE"); ok {
			p.endStmt()
		}
	case tok.Is("class"):
		if _, ok := p.rawStatement(parent, ast.StmtClassAssign, 2, "CLASS_NAME"); ok {
			p.endStmt()
		}
	case tok.Is("style"):
		if _, ok := p.rawStatement(parent, ast.StmtStyle, 2, "STYLE"); ok {
			p.endStmt()
		}
	case tok.Is("linkStyle"):
		p.flowLinkStyle(parent)
	case tok.Is("click"):
		if _, ok := p.rawStatement(parent, ast.StmtClick, 2, "CALLBACKNAME"); ok {
			p.endStmt()
		}
	case tok.Is("accTitle"), tok.Is("accDescr"):
		p.accessibility(parent)
	case tok.IsWord():
		p.flowVertexStatement(parent)
	default:
		p.unexpected(tok, flowStarters...)
	}
}

// flowVertexStatement parses "A[x] & B --> C -- text --> D".
func (p *Parser) flowVertexStatement(parent ast.StmtID) {
	left, ok := p.flowVertexGroup(parent, flowVertexStarters)
	if !ok {
		return
	}
	for {
		tok := p.lx.Peek()
		if tok.Kind != token.Link && tok.Kind != token.StartLink {
			break
		}
		op, label, link, ok := p.flowLink()
		if !ok {
			return
		}
		expected := flowAfterLink
		if label.IsValid() {
			expected = flowVertexStarters
		}
		right, ok := p.flowVertexGroup(parent, expected)
		if !ok {
			return
		}
		for _, from := range left {
			for _, to := range right {
				_, e := p.push(parent, ast.StmtEdge, link)
				e.Name = from
				e.Target = to
				e.Op = op
				e.Label = label
			}
		}
		left = right
	}
	p.endStmt(flowAfterVertex...)
}

func (p *Parser) flowVertexGroup(parent ast.StmtID, expected []string) ([]string, bool) {
	var ids []string
	for {
		id, ok := p.flowVertex(parent, expected)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
		if !p.at(token.Amp) {
			return ids, true
		}
		p.advance()
		expected = flowVertexStarters
	}
}

// flowVertex parses a node id with an optional shape and ":::class".
func (p *Parser) flowVertex(parent ast.StmtID, expected []string) (string, bool) {
	tok := p.lx.Peek()
	if !tok.IsWord() {
		p.unexpected(tok, expected...)
		return "", false
	}
	p.advance()
	_, s := p.push(parent, ast.StmtVertex, tok)
	s.Name = tok.Text

	if open, ok := p.lx.ShapeOpen(); ok {
		text := p.lx.ShapeText(open.Text)
		if !p.requireText(text, "TEXT", "STR") {
			return "", false
		}
		closeTok, d, ok := p.lx.ShapeClose(open.Text)
		if !ok {
			closers := token.ClosersFor(open.Text)
			names := make([]string, 0, len(closers))
			for _, c := range closers {
				names = append(names, token.ShapeEndName(c.Close))
			}
			p.unexpectedCode(diag.SynUnclosedShape, p.lx.Peek(), names...)
			return "", false
		}
		s.Value = d.Shape.String()
		s.Label = p.label(text)
		s.Span = tok.Span.Cover(closeTok.Span)
	}

	if p.at(token.StyleSep) {
		p.advance()
		cls, ok := p.expectWord("NODE_STRING")
		if !ok {
			return "", false
		}
		s.Args = append(s.Args, cls.Text)
		s.Span = s.Span.Cover(cls.Span)
	}
	return tok.Text, true
}

// flowLink parses a link with optional "|text|" or "-- text -->" label.
func (p *Parser) flowLink() (string, ast.LabelID, token.Token, bool) {
	tok := p.advance()
	op := tok.Text
	label := ast.NoLabelID
	link := tok

	if tok.Kind == token.StartLink {
		text, ok := p.lx.EdgeText(tok.Text)
		if !ok {
			p.unexpected(p.lx.Peek(), "EDGE_TEXT")
			return "", label, link, false
		}
		closing := p.lx.Peek()
		if closing.Kind != token.Link {
			p.unexpectedCode(diag.SynUnclosedEdgeLabel, closing, "LINK")
			return "", label, link, false
		}
		p.advance()
		op = closing.Text
		label = p.label(text)
		link.Span = tok.Span.Cover(closing.Span)
	}

	if p.at(token.Pipe) {
		p.advance()
		text := p.lx.PipeText()
		if !p.requireText(text, "TEXT", "STR") {
			return "", label, link, false
		}
		closing := p.lx.Peek()
		if closing.Kind != token.Pipe {
			p.unexpectedCode(diag.SynUnclosedEdgeLabel, closing, "PIPE")
			return "", label, link, false
		}
		p.advance()
		label = p.label(text)
		link.Span = link.Span.Cover(closing.Span)
	}
	return op, label, link, true
}

// flowSubgraph parses "subgraph id [title]" ... "end".
func (p *Parser) flowSubgraph(parent ast.StmtID) {
	kw := p.advance()
	text := p.lx.Text(";")
	id, s := p.push(parent, ast.StmtSubgraph, kw)
	name, title := splitSubgraphTitle(text.Text)
	s.Name = name
	if title != "" {
		s.Span = kw.Span.Cover(text.Span)
		s.Label = p.b.NewLabel(title, text.Span)
	}
	if !p.endStmt() {
		return
	}
	p.flowStatements(id, true)
}

func splitSubgraphTitle(text string) (id, title string) {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '['); i > 0 && strings.HasSuffix(text, "]") {
		return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1 : len(text)-1])
	}
	if strings.ContainsAny(text, " \t\"") {
		return "", text
	}
	return text, text
}

// flowLinkStyle checks that link indexes are numbers or "default".
func (p *Parser) flowLinkStyle(parent ast.StmtID) {
	s, ok := p.rawStatement(parent, ast.StmtLinkStyle, 2, "STYLE")
	if !ok {
		return
	}
	for _, idx := range strings.Split(s.Name, ",") {
		if idx == "default" || isDigits(idx) {
			continue
		}
		bad := token.Token{Kind: token.Word, Span: s.Span, Text: idx}
		p.unexpectedCode(diag.SynExpectNumber, bad, "NUM", "DEFAULT")
		return
	}
	p.endStmt()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
