package parser

import (
	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/token"
)

var pieStarters = []string{"txt", "title", "showData", "acc_title", "acc_descr"}

func (p *Parser) parsePie() {
	if !p.header("PIE", "pie") {
		return
	}
	// "pie showData title Pets" is allowed on the header line
	if tok := p.lx.Peek(); tok.Is("showData") {
		p.advance()
		p.push(ast.NoStmtID, ast.StmtShowData, tok)
	}
	if p.atKeyword("title") {
		p.title(ast.NoStmtID, ";")
	} else if !p.endStmt("showData", "title") {
		return
	}

	for !p.failed {
		p.skipSeparators()
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.EOF:
			return
		case tok.Is("title"):
			p.title(ast.NoStmtID, ";")
		case tok.Is("showData"):
			p.advance()
			p.push(ast.NoStmtID, ast.StmtShowData, tok)
			p.endStmt()
		case tok.Is("accTitle"), tok.Is("accDescr"):
			p.accessibility(ast.NoStmtID)
		case tok.Kind == token.Str:
			p.pieSlice()
		default:
			p.unexpected(tok, pieStarters...)
		}
	}
}

// pieSlice parses `"label" : 42.5`.
func (p *Parser) pieSlice() {
	label := p.advance()
	if _, ok := p.expect(token.Colon, "COLON"); !ok {
		return
	}
	value := p.lx.Peek()
	if value.Kind != token.Num {
		p.unexpectedCode(diag.SynExpectNumber, value, "NUMBER_PIE")
		return
	}
	p.advance()
	_, s := p.push(ast.NoStmtID, ast.StmtSlice, label)
	s.Span = label.Span.Cover(value.Span)
	s.Label = p.label(label)
	s.Value = value.Text
	p.endStmt()
}
