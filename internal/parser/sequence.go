package parser

import (
	"strings"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/token"
)

var (
	seqStarters = []string{
		"participant", "actor", "create", "destroy", "box", "note", "activate",
		"deactivate", "loop", "alt", "opt", "par", "critical", "break", "rect",
		"autonumber", "title", "ACTOR",
	}
	seqArrows = []string{
		"SOLID_OPEN_ARROW", "DOTTED_OPEN_ARROW", "SOLID_ARROW",
		"BIDIRECTIONAL_SOLID_ARROW", "DOTTED_ARROW", "BIDIRECTIONAL_DOTTED_ARROW",
		"SOLID_CROSS", "DOTTED_CROSS", "SOLID_POINT", "DOTTED_POINT",
	}
	// ветка допустима только внутри своего блока
	seqBranches = map[string]string{
		"else":   "alt",
		"and":    "par",
		"option": "critical",
	}
)

func (p *Parser) parseSequence() {
	if !p.header("SD", "sequenceDiagram") {
		return
	}
	if !p.endStmt() {
		return
	}
	p.sequenceStatements(ast.NoStmtID, "")
}

// sequenceStatements parses until EOF, or until "end" closes the block
// opened by opener.
func (p *Parser) sequenceStatements(parent ast.StmtID, opener string) {
	for !p.failed {
		p.skipSeparators()
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.EOF:
			if opener != "" {
				p.unexpectedCode(diag.SynUnclosedBlock, tok, "end")
			}
			return
		case tok.Is("end"):
			if opener == "" {
				p.unexpectedCode(diag.SynUnbalancedEnd, tok, seqStarters...)
				return
			}
			p.advance()
			p.endStmt()
			return
		case tok.Is("else"), tok.Is("and"), tok.Is("option"):
			kw := strings.ToLower(tok.Text)
			if seqBranches[kw] != opener {
				p.unexpected(tok, "end")
				return
			}
			p.advance()
			text := p.lx.Text("#;")
			_, s := p.push(parent, ast.StmtBranch, tok)
			s.Op = kw
			if text.Text != "" {
				s.Span = tok.Span.Cover(text.Span)
				s.Label = p.label(text)
			}
			p.endStmt()
		default:
			p.sequenceStatement(parent)
		}
	}
}

func (p *Parser) sequenceStatement(parent ast.StmtID) {
	tok := p.lx.Peek()
	if tok.Kind != token.Keyword {
		p.seqMessage(parent)
		return
	}

	switch kw := strings.ToLower(tok.Text); kw {
	case "participant", "actor":
		p.seqParticipant(parent, ast.StmtParticipant)
	case "create":
		p.advance()
		next := p.lx.Peek()
		if !next.Is("participant") && !next.Is("actor") {
			p.unexpected(next, "participant", "actor")
			return
		}
		p.seqParticipant(parent, ast.StmtCreate)
	case "destroy":
		p.seqActorStatement(parent, ast.StmtDestroy)
	case "activate":
		p.seqActorStatement(parent, ast.StmtActivate)
	case "deactivate":
		p.seqActorStatement(parent, ast.StmtDeactivate)
	case "note":
		p.seqNote(parent)
	case "loop", "alt", "opt", "par", "critical", "break", "rect", "box":
		p.advance()
		text := p.lx.Text("#;")
		kind := ast.StmtBlock
		if kw == "box" {
			kind = ast.StmtBox
		}
		id, s := p.push(parent, kind, tok)
		s.Op = kw
		if text.Text != "" {
			s.Span = tok.Span.Cover(text.Span)
			s.Label = p.label(text)
		}
		if !p.endStmt() {
			return
		}
		p.sequenceStatements(id, kw)
	case "autonumber":
		p.seqAutonumber(parent)
	case "title":
		p.title(parent, "#;")
	case "acctitle", "accdescr":
		p.accessibility(parent)
	case "link", "links", "properties", "details":
		p.seqLinks(parent)
	default:
		p.unexpected(tok, seqStarters...)
	}
}

// seqParticipant parses "participant Name as Alias".
func (p *Parser) seqParticipant(parent ast.StmtID, kind ast.StmtKind) {
	kw := p.advance()
	actor, ok := p.lx.Actor(true)
	if !ok {
		p.unexpectedCode(diag.SynExpectIdentifier, p.lx.Peek(), "ACTOR")
		return
	}
	_, s := p.push(parent, kind, kw)
	s.Span = kw.Span.Cover(actor.Span)
	s.Name = actor.Text
	s.Op = strings.ToLower(kw.Text)

	if as := p.lx.Peek(); as.Kind == token.Word && as.Text == "as" {
		p.advance()
		alias := p.lx.Text("#;")
		if !p.requireText(alias, "ALIAS") {
			return
		}
		s.Span = s.Span.Cover(alias.Span)
		s.Label = p.label(alias)
	}
	p.endStmt()
}

func (p *Parser) seqActorStatement(parent ast.StmtID, kind ast.StmtKind) {
	kw := p.advance()
	actor, ok := p.lx.Actor(false)
	if !ok {
		p.unexpectedCode(diag.SynExpectIdentifier, p.lx.Peek(), "ACTOR")
		return
	}
	_, s := p.push(parent, kind, kw)
	s.Span = kw.Span.Cover(actor.Span)
	s.Name = actor.Text
	p.endStmt()
}

// seqMessage parses "A->>+B: text".
func (p *Parser) seqMessage(parent ast.StmtID) {
	from, ok := p.lx.Actor(false)
	if !ok {
		p.unexpected(p.lx.Peek(), seqStarters...)
		return
	}
	arrow, ok := p.lx.Arrow()
	if !ok {
		p.unexpectedCode(diag.SynExpectArrow, p.lx.Peek(), seqArrows...)
		return
	}
	var activation string
	switch {
	case p.lx.EatByte('+'):
		activation = "+"
	case p.lx.EatByte('-'):
		activation = "-"
	}
	to, ok := p.lx.Actor(false)
	if !ok {
		p.unexpectedCode(diag.SynExpectIdentifier, p.lx.Peek(), "ACTOR")
		return
	}
	if !p.lx.EatByte(':') {
		p.unexpectedCode(diag.SynExpectColon, p.lx.Peek(), "TXT")
		return
	}
	text := p.lx.Text("#;")

	_, s := p.push(parent, ast.StmtMessage, from)
	s.Span = from.Span.Cover(to.Span)
	s.Name = from.Text
	s.Target = to.Text
	s.Op = arrow.Text
	s.Value = activation
	if text.Text != "" {
		s.Span = s.Span.Cover(text.Span)
	}
	s.Label = p.label(text)
	p.endStmt()
}

// seqNote parses "note left of A: text" and "note over A,B: text".
func (p *Parser) seqNote(parent ast.StmtID) {
	kw := p.advance()
	pos := p.lx.Peek()
	placement := strings.ToLower(pos.Text)
	switch {
	case pos.Kind == token.Word && (placement == "left" || placement == "right"):
		p.advance()
		of := p.lx.Peek()
		if of.Kind != token.Word || !strings.EqualFold(of.Text, "of") {
			p.unexpected(of, strings.ToUpper(placement)+"_OF")
			return
		}
		p.advance()
		placement += " of"
	case pos.Kind == token.Word && placement == "over":
		p.advance()
	default:
		p.unexpected(pos, "LEFT_OF", "RIGHT_OF", "OVER")
		return
	}

	first, ok := p.lx.Actor(false)
	if !ok {
		p.unexpectedCode(diag.SynExpectIdentifier, p.lx.Peek(), "ACTOR")
		return
	}
	_, s := p.push(parent, ast.StmtNote, kw)
	s.Op = placement
	s.Args = []string{first.Text}
	s.Span = kw.Span.Cover(first.Span)

	if placement == "over" && p.lx.EatByte(',') {
		second, ok := p.lx.Actor(false)
		if !ok {
			p.unexpectedCode(diag.SynExpectIdentifier, p.lx.Peek(), "ACTOR")
			return
		}
		s.Args = append(s.Args, second.Text)
		s.Span = s.Span.Cover(second.Span)
	}
	if !p.lx.EatByte(':') {
		p.unexpectedCode(diag.SynExpectColon, p.lx.Peek(), "TXT")
		return
	}
	text := p.lx.Text("#;")
	if text.Text != "" {
		s.Span = s.Span.Cover(text.Span)
	}
	s.Label = p.label(text)
	p.endStmt()
}

// seqAutonumber accepts "autonumber", "autonumber off", "autonumber 10" and
// "autonumber 10 5".
func (p *Parser) seqAutonumber(parent ast.StmtID) {
	kw := p.advance()
	_, s := p.push(parent, ast.StmtAutonumber, kw)
	if tok := p.lx.Peek(); tok.Kind == token.Word && strings.EqualFold(tok.Text, "off") {
		p.advance()
		s.Value = "off"
		s.Span = kw.Span.Cover(tok.Span)
		p.endStmt()
		return
	}
	for range 2 {
		tok := p.lx.Peek()
		if tok.Kind != token.Num {
			break
		}
		p.advance()
		s.Args = append(s.Args, tok.Text)
		s.Span = s.Span.Cover(tok.Span)
	}
	if len(s.Args) == 0 {
		p.endStmt("NUM", "off")
		return
	}
	if len(s.Args) == 1 {
		p.endStmt("NUM")
		return
	}
	p.endStmt()
}

// seqLinks parses "links A: {json}" and its siblings.
func (p *Parser) seqLinks(parent ast.StmtID) {
	kw := p.advance()
	actor, ok := p.lx.Actor(false)
	if !ok {
		p.unexpectedCode(diag.SynExpectIdentifier, p.lx.Peek(), "ACTOR")
		return
	}
	if !p.lx.EatByte(':') {
		p.unexpectedCode(diag.SynExpectColon, p.lx.Peek(), "TXT")
		return
	}
	text := p.lx.Text("")
	if !p.requireText(text, "TXT") {
		return
	}
	_, s := p.push(parent, ast.StmtLinks, kw)
	s.Op = strings.ToLower(kw.Text)
	s.Name = actor.Text
	s.Value = text.Text
	s.Span = kw.Span.Cover(text.Span)
	p.endStmt()
}
