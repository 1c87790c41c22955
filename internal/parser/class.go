package parser

import (
	"strings"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/token"
)

var classStarters = []string{
	"class", "namespace", "note", "direction", "classDef", "cssClass", "style",
	"click", "link", "callback", "ANNOTATION_START", "ALPHA",
}

func (p *Parser) parseClass() {
	if !p.header("CLASS_DIAGRAM", "classDiagram", "classDiagram-v2") {
		return
	}
	if !p.endStmt() {
		return
	}
	p.classStatements(ast.NoStmtID, false)
}

// classStatements parses until EOF, or until "}" closes a namespace.
func (p *Parser) classStatements(parent ast.StmtID, nested bool) {
	for !p.failed {
		p.skipSeparators()
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.EOF:
			if nested {
				p.unexpectedCode(diag.SynUnclosedBlock, tok, "STRUCT_STOP")
			}
			return
		case tok.Kind == token.RBrace:
			if !nested {
				p.unexpected(tok, classStarters...)
				return
			}
			p.advance()
			p.endStmt()
			return
		}
		p.classStatement(parent)
	}
}

func (p *Parser) classStatement(parent ast.StmtID) {
	tok := p.lx.Peek()
	switch {
	case tok.Is("class"):
		p.classDecl(parent)
	case tok.Is("namespace"):
		p.classNamespace(parent)
	case tok.Is("note"):
		p.classNote(parent)
	case tok.Is("direction"):
		p.direction(parent)
	case tok.Is("title"):
		p.title(parent, ";")
	case tok.Is("accTitle"), tok.Is("accDescr"):
		p.accessibility(parent)
	case tok.Is("classDef"):
		p.rawLine(parent, ast.StmtClassDef, 2, "STYLE")
	case tok.Is("cssClass"):
		p.rawLine(parent, ast.StmtClassAssign, 2, "STR")
	case tok.Is("style"):
		p.rawLine(parent, ast.StmtStyle, 2, "STYLE")
	case tok.Is("click"), tok.Is("link"), tok.Is("callback"):
		p.rawLine(parent, ast.StmtClick, 2, "STR")
	case tok.Kind == token.Annotation:
		p.advance()
		name, ok := p.className()
		if !ok {
			return
		}
		_, s := p.push(parent, ast.StmtAnnotation, tok)
		s.Span = tok.Span.Cover(name.Span)
		s.Name = name.Text
		s.Value = strings.TrimSuffix(strings.TrimPrefix(tok.Text, "<<"), ">>")
		p.endStmt()
	case tok.IsWord():
		p.classRelationOrMember(parent)
	default:
		p.unexpected(tok, classStarters...)
	}
}

func (p *Parser) rawLine(parent ast.StmtID, kind ast.StmtKind, minFields int, expected string) {
	if _, ok := p.rawStatement(parent, kind, minFields, expected); ok {
		p.endStmt()
	}
}

// className consumes a class name with an optional ~generic~ suffix.
func (p *Parser) className() (token.Token, bool) {
	name, ok := p.expectWord("ALPHA")
	if !ok {
		return name, false
	}
	if g := p.lx.Peek(); g.Kind == token.Generic {
		p.advance()
		name.Text += g.Text
		name.Span = name.Span.Cover(g.Span)
	}
	return name, true
}

// classDecl parses `class Name~T~["Label"]:::css { members }`.
func (p *Parser) classDecl(parent ast.StmtID) {
	kw := p.advance()
	name, ok := p.className()
	if !ok {
		return
	}
	id, s := p.push(parent, ast.StmtClass, kw)
	s.Span = kw.Span.Cover(name.Span)
	s.Name = name.Text

	if open := p.lx.Peek(); open.Kind == token.ShapeStart && open.Text == "[" {
		p.advance()
		text, ok := p.expect(token.Str, "STR")
		if !ok {
			return
		}
		closeTok, ok := p.expect(token.ShapeEnd, "SQE")
		if !ok {
			return
		}
		s.Label = p.label(text)
		s.Span = s.Span.Cover(closeTok.Span)
	}
	if p.at(token.StyleSep) {
		p.advance()
		css, ok := p.expectWord("ALPHA")
		if !ok {
			return
		}
		s.Args = append(s.Args, css.Text)
		s.Span = s.Span.Cover(css.Span)
	}
	if p.at(token.LBrace) {
		p.advance()
		if !p.classBody(id) {
			return
		}
	}
	p.endStmt("STRUCT_START", "STYLE_SEPARATOR")
}

// classBody reads one member per line until "}". Members allocate
// statements, so the class is looked up again after each of them.
func (p *Parser) classBody(class ast.StmtID) bool {
	for !p.failed {
		p.skipSeparators()
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.RBrace:
			p.advance()
			c := p.b.Stmt(class)
			c.Span = c.Span.Cover(tok.Span)
			return true
		case token.EOF:
			p.unexpectedCode(diag.SynUnclosedBlock, tok, "STRUCT_STOP")
			return false
		case token.Annotation:
			p.advance()
			p.b.Stmt(class).Value = strings.TrimSuffix(strings.TrimPrefix(tok.Text, "<<"), ">>")
			continue
		}
		text := p.lx.Text("}")
		if !p.requireText(text, "MEMBER") {
			return false
		}
		id := p.b.NewStmt(ast.StmtMember, text.Span)
		c := p.b.Stmt(class)
		m := p.b.Stmt(id)
		m.Name = c.Name
		m.Label = p.label(text)
		c.Children = append(c.Children, id)
	}
	return false
}

// classRelationOrMember parses `A : member` and
// `A "1" <|-- "*" B : label`.
func (p *Parser) classRelationOrMember(parent ast.StmtID) {
	first, ok := p.className()
	if !ok {
		return
	}
	if p.at(token.Colon) {
		p.advance()
		text := p.lx.Text("")
		if !p.requireText(text, "LABEL") {
			return
		}
		_, s := p.push(parent, ast.StmtMember, first)
		s.Span = first.Span.Cover(text.Span)
		s.Name = first.Text
		s.Label = p.label(text)
		p.endStmt()
		return
	}

	var left, right string
	if tok := p.lx.Peek(); tok.Kind == token.Str {
		p.advance()
		left = strings.Trim(tok.Text, `"`)
	}
	rel := p.lx.Peek()
	if rel.Kind != token.Relation {
		expected := []string{"LABEL", "STR", "RELATION"}
		if left != "" {
			expected = expected[2:]
		}
		p.unexpectedCode(diag.SynExpectArrow, rel, expected...)
		return
	}
	p.advance()
	if tok := p.lx.Peek(); tok.Kind == token.Str {
		p.advance()
		right = strings.Trim(tok.Text, `"`)
	}
	second, ok := p.className()
	if !ok {
		return
	}

	_, s := p.push(parent, ast.StmtRelation, first)
	s.Span = first.Span.Cover(second.Span)
	s.Name = first.Text
	s.Target = second.Text
	s.Op = rel.Text
	s.Args = []string{left, right}

	if p.at(token.Colon) {
		p.advance()
		text := p.lx.Text("")
		if !p.requireText(text, "LABEL") {
			return
		}
		s.Span = s.Span.Cover(text.Span)
		s.Label = p.label(text)
	}
	p.endStmt("LABEL")
}

// classNamespace parses "namespace Name { ... }".
func (p *Parser) classNamespace(parent ast.StmtID) {
	kw := p.advance()
	name, ok := p.expectWord("ALPHA")
	if !ok {
		return
	}
	if _, ok := p.expect(token.LBrace, "STRUCT_START"); !ok {
		return
	}
	id, s := p.push(parent, ast.StmtNamespace, kw)
	s.Span = kw.Span.Cover(name.Span)
	s.Name = name.Text
	p.classStatements(id, true)
}

// classNote parses `note "text"` and `note for Class "text"`.
func (p *Parser) classNote(parent ast.StmtID) {
	kw := p.advance()
	_, s := p.push(parent, ast.StmtNote, kw)
	if tok := p.lx.Peek(); tok.Kind == token.Word && tok.Text == "for" {
		p.advance()
		name, ok := p.className()
		if !ok {
			return
		}
		s.Name = name.Text
	}
	text, ok := p.expect(token.Str, "STR")
	if !ok {
		return
	}
	s.Span = kw.Span.Cover(text.Span)
	s.Label = p.label(text)
	p.endStmt()
}
