package parser

import (
	"strings"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/token"
)

var attributeKeys = map[string]struct{}{
	"PK": {}, "FK": {}, "UK": {},
}

func (p *Parser) parseER() {
	if !p.header("ER_DIAGRAM", "erDiagram") {
		return
	}
	if !p.endStmt() {
		return
	}
	for !p.failed {
		p.skipSeparators()
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.EOF:
			return
		case tok.Is("direction"):
			p.direction(ast.NoStmtID)
		case tok.Is("title"):
			p.title(ast.NoStmtID, ";")
		case tok.Is("accTitle"), tok.Is("accDescr"):
			p.accessibility(ast.NoStmtID)
		case tok.IsWord(), tok.Kind == token.Str:
			p.erStatement()
		default:
			p.unexpected(tok, "ENTITY_NAME")
		}
	}
}

// erStatement parses an entity with an optional attribute block, or a
// relationship `A ||--o{ B : label`.
func (p *Parser) erStatement() {
	name := p.advance()
	id, s := p.push(ast.NoStmtID, ast.StmtEntity, name)
	s.Name = strings.Trim(name.Text, `"`)

	if open := p.lx.Peek(); open.Kind == token.ShapeStart {
		p.advance()
		alias := p.lx.Peek()
		if !alias.IsWord() && alias.Kind != token.Str {
			p.unexpected(alias, "ENTITY_NAME", "STR")
			return
		}
		p.advance()
		closeTok, ok := p.expect(token.ShapeEnd, "SQE")
		if !ok {
			return
		}
		s.Label = p.label(alias)
		s.Span = s.Span.Cover(closeTok.Span)
	}

	switch tok := p.lx.Peek(); tok.Kind {
	case token.LBrace:
		p.advance()
		p.erAttributes(id)
	case token.Relation:
		p.advance()
		other := p.lx.Peek()
		if !other.IsWord() && other.Kind != token.Str {
			p.unexpected(other, "ENTITY_NAME")
			return
		}
		p.advance()
		if _, ok := p.expect(token.Colon, "COLON"); !ok {
			return
		}
		role := p.lx.Peek()
		if !role.IsWord() && role.Kind != token.Str {
			p.unexpectedCode(diag.SynExpectText, role, "WORD", "ENTITY_NAME", "STR")
			return
		}
		p.advance()
		// отношение заменяет только что созданную сущность
		s.Kind = ast.StmtRelationship
		s.Target = strings.Trim(other.Text, `"`)
		s.Op = tok.Text
		s.Label = p.label(role)
		s.Span = name.Span.Cover(role.Span)
		p.endStmt()
	default:
		p.endStmt("BLOCK_START", "RELATIONSHIP")
	}
}

// erAttributes reads `type name [PK, FK] ["comment"]` lines until "}".
func (p *Parser) erAttributes(entity ast.StmtID) {
	for !p.failed {
		p.skipSeparators()
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.RBrace:
			p.advance()
			e := p.b.Stmt(entity)
			e.Span = e.Span.Cover(tok.Span)
			p.endStmt()
			return
		case token.EOF:
			p.unexpectedCode(diag.SynUnclosedBlock, tok, "BLOCK_STOP")
			return
		}

		typ := p.lx.Field()
		if typ.Text == "" {
			p.unexpected(p.lx.Peek(), "ATTRIBUTE_WORD", "BLOCK_STOP")
			return
		}
		name := p.lx.Field()
		if name.Text == "" {
			p.unexpected(p.lx.Peek(), "ATTRIBUTE_WORD")
			return
		}
		attr := p.b.NewStmt(ast.StmtAttribute, typ.Span.Cover(name.Span))
		a := p.b.Stmt(attr)
		a.Value = typ.Text
		a.Name = name.Text

		for {
			key := p.lx.Peek()
			if key.Kind != token.Word {
				break
			}
			if _, ok := attributeKeys[key.Text]; !ok {
				break
			}
			p.advance()
			a.Args = append(a.Args, key.Text)
			a.Span = a.Span.Cover(key.Span)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if comment := p.lx.Peek(); comment.Kind == token.Str {
			p.advance()
			a.Label = p.label(comment)
			a.Span = a.Span.Cover(comment.Span)
		}
		e := p.b.Stmt(entity)
		e.Children = append(e.Children, attr)

		if next := p.lx.Peek(); !next.IsEnd() && next.Kind != token.RBrace {
			p.unexpected(next, "ATTRIBUTE_KEY", "COMMENT", "NEWLINE")
			return
		}
	}
}
