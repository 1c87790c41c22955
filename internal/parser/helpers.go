package parser

import (
	"fmt"
	"strconv"
	"strings"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/token"
)

var directions = map[string]struct{}{
	"TB": {}, "TD": {}, "BT": {}, "RL": {}, "LR": {},
}

func isDirection(s string) bool {
	_, ok := directions[s]
	return ok
}

// unexpected reports tok as the first error of the parse.
func (p *Parser) unexpected(tok token.Token, expected ...string) {
	code := diag.SynUnexpectedToken
	if tok.Kind == token.EOF {
		code = diag.SynUnexpectedEOF
	}
	p.unexpectedCode(code, tok, expected...)
}

func (p *Parser) unexpectedCode(code diag.Code, tok token.Token, expected ...string) {
	if p.failed {
		return
	}
	p.failed = true

	// лексер не смог распознать текст: это лексическая ошибка, а не синтаксическая
	if tok.Kind == token.Invalid {
		if strings.HasPrefix(tok.Text, `"`) {
			p.report(diag.NewError(diag.LexUnterminatedString, tok.Span, "unterminated string"))
			return
		}
		p.report(diag.NewError(diag.LexUnrecognizedText, tok.Span,
			"unrecognized text "+strconv.Quote(tok.Text)))
		return
	}

	quoted := make([]string, len(expected))
	for i, e := range expected {
		quoted[i] = "'" + e + "'"
	}
	got := tok.Terminal()
	msg := fmt.Sprintf("expecting %s, got '%s'", strings.Join(quoted, ", "), got)
	p.report(diag.NewError(code, tok.Span, msg).WithFound(got, quoted...))
}

// skipSeparators consumes blank statements.
func (p *Parser) skipSeparators() {
	for p.lx.Peek().IsSeparator() {
		p.advance()
	}
}

// endStmt requires a statement separator or the end of input. Names in extra
// are listed first among the accepted alternatives.
func (p *Parser) endStmt(extra ...string) bool {
	if p.failed {
		return false
	}
	tok := p.lx.Peek()
	switch {
	case tok.IsSeparator():
		p.advance()
		return true
	case tok.Kind == token.EOF:
		return true
	}
	expected := make([]string, 0, len(extra)+3)
	expected = append(expected, extra...)
	expected = append(expected, "SEMI", "NEWLINE", "EOF")
	p.unexpectedCode(diag.SynExpectSeparator, tok, expected...)
	return false
}

// header consumes the diagram keyword.
func (p *Parser) header(terminal string, names ...string) bool {
	p.skipSeparators()
	tok := p.lx.Peek()
	if tok.Kind == token.Keyword {
		for _, n := range names {
			if strings.EqualFold(n, tok.Text) {
				p.advance()
				d := p.b.Diagram()
				d.Type = tok.Text
				d.Header = tok.Span
				return true
			}
		}
	}
	p.unexpectedCode(diag.SynInvalidHeader, tok, terminal)
	return false
}

func (p *Parser) push(parent ast.StmtID, kind ast.StmtKind, tok token.Token) (ast.StmtID, *ast.Stmt) {
	id := p.b.NewStmt(kind, tok.Span)
	p.b.Push(parent, id)
	return id, p.b.Stmt(id)
}

func (p *Parser) label(tok token.Token) ast.LabelID {
	return p.b.NewLabel(tok.Text, tok.Span)
}

// requireText reports the token after an empty raw text.
func (p *Parser) requireText(tok token.Token, expected ...string) bool {
	if tok.Kind == token.Invalid {
		p.unexpected(tok)
		return false
	}
	if tok.Text != "" {
		return true
	}
	p.unexpectedCode(diag.SynExpectText, p.lx.Peek(), expected...)
	return false
}

// direction handles "direction TB".
func (p *Parser) direction(parent ast.StmtID) {
	kw := p.advance()
	tok := p.lx.Peek()
	if tok.Kind != token.Word || !isDirection(tok.Text) {
		p.unexpectedCode(diag.SynExpectDirection, tok, "DIR")
		return
	}
	p.advance()
	_, s := p.push(parent, ast.StmtDirection, kw)
	s.Span = kw.Span.Cover(tok.Span)
	s.Value = tok.Text
	if !parent.IsValid() {
		p.b.Diagram().Direction = tok.Text
	}
	p.endStmt()
}

// title handles "title text" with an optional colon.
func (p *Parser) title(parent ast.StmtID, stops string) {
	kw := p.advance()
	p.lx.EatByte(':')
	text := p.lx.Text(stops)
	if !p.requireText(text, "title") {
		return
	}
	_, s := p.push(parent, ast.StmtTitle, kw)
	s.Span = kw.Span.Cover(text.Span)
	s.Label = p.label(text)
	p.b.Diagram().Title = text.Text
	p.endStmt()
}

// accessibility handles "accTitle: text", "accDescr: text" and the
// multi-line "accDescr { ... }".
func (p *Parser) accessibility(parent ast.StmtID) {
	kw := p.advance()
	kind := ast.StmtAccTitle
	if strings.EqualFold(kw.Text, "accDescr") {
		kind = ast.StmtAccDescr
	}

	var text token.Token
	switch {
	case p.lx.EatByte(':'):
		text = p.lx.Text("")
	case kind == ast.StmtAccDescr && p.lx.EatByte('{'):
		block, ok := p.lx.Block('}')
		if !ok {
			p.unexpectedCode(diag.SynUnclosedBlock, p.lx.Peek(), "acc_descr_multiline_end")
			return
		}
		text = block
		text.Text = strings.TrimSpace(text.Text)
	default:
		expected := []string{"acc_title"}
		if kind == ast.StmtAccDescr {
			expected = []string{"acc_descr", "acc_descr_multiline_start"}
		}
		p.unexpected(p.lx.Peek(), expected...)
		return
	}

	_, s := p.push(parent, kind, kw)
	s.Span = kw.Span.Cover(text.Span)
	s.Label = p.label(text)
	d := p.b.Diagram()
	if kind == ast.StmtAccTitle {
		d.AccTitle = text.Text
	} else {
		d.AccDescr = text.Text
	}
	p.endStmt()
}

// rawStatement handles keyword statements whose arguments are free-form
// fields up to the end of the line: classDef, style, click and friends.
func (p *Parser) rawStatement(parent ast.StmtID, kind ast.StmtKind, minFields int, expected string) (*ast.Stmt, bool) {
	kw := p.advance()
	text := p.lx.Text(";")
	fields := strings.Fields(text.Text)
	if len(fields) < minFields {
		p.unexpectedCode(diag.SynExpectText, p.lx.Peek(), expected)
		return nil, false
	}
	_, s := p.push(parent, kind, kw)
	s.Op = kw.Text
	if len(fields) > 0 {
		s.Span = kw.Span.Cover(text.Span)
		s.Name = fields[0]
		s.Args = fields[1:]
	}
	return s, true
}
