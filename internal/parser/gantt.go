package parser

import (
	"strings"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/token"
)

// gantt settings that take a value; flags take none.
var (
	ganttSettings = map[string]struct{}{
		"dateformat": {}, "axisformat": {}, "tickinterval": {}, "todaymarker": {},
		"excludes": {}, "includes": {}, "weekday": {}, "weekend": {},
	}
	ganttFlags = map[string]struct{}{
		"inclusiveenddates": {}, "topaxis": {},
	}
)

func (p *Parser) parseGantt() {
	if !p.header("gantt", "gantt") {
		return
	}
	if !p.endStmt() {
		return
	}
	section := ast.NoStmtID
	for !p.failed {
		p.skipSeparators()
		tok := p.lx.Peek()
		if tok.Kind == token.EOF {
			return
		}
		if tok.Kind != token.Keyword {
			p.task(section)
			continue
		}

		kw := strings.ToLower(tok.Text)
		_, isSetting := ganttSettings[kw]
		_, isFlag := ganttFlags[kw]
		switch {
		case isSetting:
			p.advance()
			value := p.lx.Text("#;")
			if !p.requireText(value, kw) {
				return
			}
			_, s := p.push(ast.NoStmtID, ast.StmtSetting, tok)
			s.Span = tok.Span.Cover(value.Span)
			s.Name = kw
			s.Value = value.Text
			p.endStmt()
		case isFlag:
			p.advance()
			_, s := p.push(ast.NoStmtID, ast.StmtSetting, tok)
			s.Name = kw
			p.endStmt()
		case kw == "title":
			p.title(ast.NoStmtID, "#;")
		case kw == "section":
			section = p.section()
		case kw == "click":
			if _, ok := p.rawStatement(section, ast.StmtClick, 2, "click"); ok {
				p.endStmt()
			}
		case kw == "acctitle", kw == "accdescr":
			p.accessibility(ast.NoStmtID)
		default:
			p.unexpected(tok, "taskTxt")
		}
	}
}

func (p *Parser) parseJourney() {
	if !p.header("journey", "journey") {
		return
	}
	if !p.endStmt() {
		return
	}
	section := ast.NoStmtID
	for !p.failed {
		p.skipSeparators()
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.EOF:
			return
		case tok.Is("title"):
			p.title(ast.NoStmtID, "#;")
		case tok.Is("section"):
			section = p.section()
		case tok.Is("accTitle"), tok.Is("accDescr"):
			p.accessibility(ast.NoStmtID)
		default:
			if id := p.task(section); id.IsValid() {
				p.journeyScore(id)
			}
		}
	}
}

// section opens a section; tasks that follow become its children.
func (p *Parser) section() ast.StmtID {
	kw := p.advance()
	name := p.lx.Text("#;")
	if !p.requireText(name, "taskTxt") {
		return ast.NoStmtID
	}
	id, s := p.push(ast.NoStmtID, ast.StmtSection, kw)
	s.Span = kw.Span.Cover(name.Span)
	s.Label = p.label(name)
	p.endStmt()
	return id
}

// task parses "name : data" shared by gantt and journey.
func (p *Parser) task(section ast.StmtID) ast.StmtID {
	name := p.lx.Text(":#;")
	if !p.requireText(name, "taskTxt", "section", "title") {
		return ast.NoStmtID
	}
	if !p.lx.EatByte(':') {
		p.unexpectedCode(diag.SynExpectColon, p.lx.Peek(), "taskData")
		return ast.NoStmtID
	}
	data := p.lx.Text("#;")
	if !p.requireText(data, "taskData") {
		return ast.NoStmtID
	}
	id, s := p.push(section, ast.StmtTask, name)
	s.Span = name.Span.Cover(data.Span)
	s.Label = p.label(name)
	s.Value = data.Text
	if !p.endStmt() {
		return ast.NoStmtID
	}
	return id
}

// journeyScore splits "5: Me, Cat" into the score and the actors.
func (p *Parser) journeyScore(task ast.StmtID) {
	s := p.b.Stmt(task)
	score, actors, _ := strings.Cut(s.Value, ":")
	s.Value = strings.TrimSpace(score)
	s.Args = s.Args[:0]
	for _, a := range strings.Split(actors, ",") {
		if a = strings.TrimSpace(a); a != "" {
			s.Args = append(s.Args, a)
		}
	}
}
