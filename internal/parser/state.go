package parser

import (
	"strings"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/token"
)

var (
	stateStarters = []string{
		"ID", "EDGE_STATE", "state", "note", "direction", "classDef", "class",
		"style", "hide", "scale", "CONCURRENT",
	}
	stateKinds = map[string]struct{}{
		"fork": {}, "join": {}, "choice": {},
	}
)

func (p *Parser) parseState() {
	if !p.header("SD", "stateDiagram", "stateDiagram-v2") {
		return
	}
	if !p.endStmt() {
		return
	}
	p.stateStatements(ast.NoStmtID, false)
}

// stateStatements parses until EOF, or until "}" closes a composite state.
func (p *Parser) stateStatements(parent ast.StmtID, nested bool) {
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
				p.unexpected(tok, stateStarters...)
				return
			}
			p.advance()
			p.endStmt()
			return
		case tok.Kind == token.Relation && tok.Text == "--":
			p.advance()
			p.push(parent, ast.StmtConcurrency, tok)
			p.endStmt()
			continue
		}
		p.stateStatement(parent)
	}
}

func (p *Parser) stateStatement(parent ast.StmtID) {
	tok := p.lx.Peek()
	switch {
	case tok.Is("state"):
		p.stateDecl(parent)
	case tok.Is("note"):
		p.stateNote(parent)
	case tok.Is("direction"):
		p.direction(parent)
	case tok.Is("title"):
		p.title(parent, ";")
	case tok.Is("accTitle"), tok.Is("accDescr"):
		p.accessibility(parent)
	case tok.Is("classDef"):
		p.rawLine(parent, ast.StmtClassDef, 2, "CLASSDEF_STYLEOPTS")
	case tok.Is("class"):
		p.rawLine(parent, ast.StmtClassAssign, 2, "CLASSENTITY_IDS")
	case tok.Is("style"):
		p.rawLine(parent, ast.StmtStyle, 2, "STYLEDEF_STYLEOPTS")
	case tok.Is("hide"):
		p.rawLine(parent, ast.StmtHide, 1, "HIDE_EMPTY")
	case tok.Is("scale"):
		p.stateScale(parent)
	case tok.Kind == token.StateEdge || tok.IsWord():
		p.stateTransition(parent)
	default:
		p.unexpected(tok, stateStarters...)
	}
}

// stateRef consumes a state id or "[*]" with an optional ":::class".
func (p *Parser) stateRef() (token.Token, string, bool) {
	tok := p.lx.Peek()
	if tok.Kind != token.StateEdge && !tok.IsWord() {
		p.unexpectedCode(diag.SynExpectIdentifier, tok, "ID", "EDGE_STATE")
		return tok, "", false
	}
	p.advance()
	var class string
	if p.at(token.StyleSep) {
		p.advance()
		css, ok := p.expectWord("ID")
		if !ok {
			return tok, "", false
		}
		class = css.Text
	}
	return tok, class, true
}

// stateTransition parses "A --> B: label", "A: description" and a bare "A".
func (p *Parser) stateTransition(parent ast.StmtID) {
	from, fromClass, ok := p.stateRef()
	if !ok {
		return
	}

	if rel := p.lx.Peek(); rel.Kind == token.Relation && rel.Text == "-->" {
		p.advance()
		to, toClass, ok := p.stateRef()
		if !ok {
			return
		}
		_, s := p.push(parent, ast.StmtTransition, from)
		s.Span = from.Span.Cover(to.Span)
		s.Name = from.Text
		s.Target = to.Text
		s.Op = rel.Text
		s.Args = []string{fromClass, toClass}
		if p.at(token.Colon) {
			p.advance()
			text := p.lx.Text(";")
			if !p.requireText(text, "DESCR") {
				return
			}
			s.Span = s.Span.Cover(text.Span)
			s.Label = p.label(text)
		}
		p.endStmt("COLON")
		return
	}

	_, s := p.push(parent, ast.StmtState, from)
	s.Name = from.Text
	if fromClass != "" {
		s.Args = []string{fromClass}
	}
	if p.at(token.Colon) {
		p.advance()
		text := p.lx.Text(";")
		if !p.requireText(text, "DESCR") {
			return
		}
		s.Span = from.Span.Cover(text.Span)
		s.Label = p.label(text)
		p.endStmt()
		return
	}
	p.endStmt("COLON", "-->")
}

// stateDecl parses `state "Description" as Id`, `state Id <<fork>>` and
// composite `state Id { ... }`.
func (p *Parser) stateDecl(parent ast.StmtID) {
	kw := p.advance()
	id, s := p.push(parent, ast.StmtState, kw)

	if desc := p.lx.Peek(); desc.Kind == token.Str {
		p.advance()
		s.Label = p.label(desc)
		as := p.lx.Peek()
		if as.Kind != token.Word || as.Text != "as" {
			p.unexpected(as, "AS")
			return
		}
		p.advance()
	}
	name, ok := p.expectWord("ID")
	if !ok {
		return
	}
	s.Name = name.Text
	s.Span = kw.Span.Cover(name.Span)

	if ann := p.lx.Peek(); ann.Kind == token.Annotation {
		p.advance()
		kind := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(ann.Text, "<<"), ">>"))
		if _, ok := stateKinds[kind]; !ok {
			p.unexpected(ann, "FORK", "JOIN", "CHOICE")
			return
		}
		s.Value = kind
		s.Span = s.Span.Cover(ann.Span)
	}
	if p.at(token.Colon) && !s.Label.IsValid() {
		p.advance()
		text := p.lx.Text(";")
		if !p.requireText(text, "DESCR") {
			return
		}
		s.Label = p.label(text)
		s.Span = s.Span.Cover(text.Span)
	}
	if p.at(token.LBrace) {
		p.advance()
		p.stateStatements(id, true)
		return
	}
	p.endStmt("STRUCT_START")
}

// stateNote parses single-line "note left of A: text" and the multi-line
// form closed by "end note".
func (p *Parser) stateNote(parent ast.StmtID) {
	kw := p.advance()
	pos := p.lx.Peek()
	placement := strings.ToLower(pos.Text)
	if pos.Kind != token.Word || (placement != "left" && placement != "right") {
		p.unexpected(pos, "left of", "right of")
		return
	}
	p.advance()
	if of := p.lx.Peek(); of.Kind != token.Word || of.Text != "of" {
		p.unexpected(of, placement+" of")
		return
	}
	p.advance()
	target, ok := p.expectWord("ID")
	if !ok {
		return
	}
	_, s := p.push(parent, ast.StmtNote, kw)
	s.Op = placement + " of"
	s.Name = target.Text
	s.Span = kw.Span.Cover(target.Span)

	if p.at(token.Colon) {
		p.advance()
		text := p.lx.Text("")
		if !p.requireText(text, "NOTE_TEXT") {
			return
		}
		s.Span = s.Span.Cover(text.Span)
		s.Label = p.label(text)
		p.endStmt()
		return
	}
	if !p.endStmt("COLON") {
		return
	}

	var lines []string
	body := s.Span
	for !p.failed {
		p.skipSeparators()
		if tok := p.lx.Peek(); tok.Kind == token.EOF {
			p.unexpectedCode(diag.SynUnclosedBlock, tok, "end note")
			return
		}
		line := p.lx.Text("")
		if strings.EqualFold(strings.Join(strings.Fields(line.Text), " "), "end note") {
			s.Span = s.Span.Cover(line.Span)
			break
		}
		if !p.requireText(line, "NOTE_TEXT") {
			return
		}
		if len(lines) == 0 {
			body = line.Span
		}
		body = body.Cover(line.Span)
		lines = append(lines, line.Text)
	}
	s.Label = p.b.NewLabel(strings.Join(lines, "\n"), body)
	p.endStmt()
}

// stateScale parses "scale 350 width".
func (p *Parser) stateScale(parent ast.StmtID) {
	kw := p.advance()
	n, ok := p.expect(token.Num, "WIDTH")
	if !ok {
		return
	}
	_, s := p.push(parent, ast.StmtScale, kw)
	s.Value = n.Text
	s.Span = kw.Span.Cover(n.Span)
	if tok := p.lx.Peek(); tok.Kind == token.Word && tok.Text == "width" {
		p.advance()
		s.Span = s.Span.Cover(tok.Span)
	}
	p.endStmt()
}
