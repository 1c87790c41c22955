package lexer

import (
	"bytes"
	"regexp"
	"strings"

	"mmdcheck/internal/token"
)

var (
	flowLinkPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[xo<]?--+[-xo>]`),
		regexp.MustCompile(`^[xo<]?==+[=xo>]`),
		regexp.MustCompile(`^[xo<]?-?\.+-[xo>]?`),
		regexp.MustCompile(`^~~~+`),
	}
	flowStartLink = regexp.MustCompile(`^[xo<]?(?:--|==|-\.)`)

	classRelation = regexp.MustCompile(`^(?:<\||\*|o|<|\(\))?(?:--|\.\.)(?:\|>|\*|o|>|\(\))?`)
	erRelation    = regexp.MustCompile(`^(?:\|o|\|\||\}o|\}\|)(?:--|\.\.)(?:o\||\|\||o\{|\|\{)`)
)

// sequence arrows, longest first
var sequenceArrows = []string{
	"<<-->>", "<<->>", "-->>", "--x", "--)", "-->", "->>", "-x", "-)", "->",
}

var punct = map[byte]token.Kind{
	':': token.Colon,
	'&': token.Amp,
	'|': token.Pipe,
	',': token.Comma,
	'+': token.Plus,
	'-': token.Minus,
	'{': token.LBrace,
	'}': token.RBrace,
}

func (lx *Lexer) scanOperator() (token.Token, bool) {
	switch lx.opts.Grammar {
	case token.GrammarFlowchart:
		return lx.scanFlowOperator()
	case token.GrammarSequence:
		if tok, ok := lx.matchLiteral(token.Arrow, sequenceArrows...); ok {
			return tok, true
		}
		return lx.scanPunct(":+-,")
	case token.GrammarClass:
		return lx.scanClassOperator()
	case token.GrammarState:
		return lx.scanStateOperator()
	case token.GrammarER:
		if tok, ok := lx.matchRegexp(erRelation, token.Relation); ok {
			return tok, true
		}
		if tok, ok := lx.matchLiteral(token.ShapeStart, "["); ok {
			return tok, true
		}
		if tok, ok := lx.matchLiteral(token.ShapeEnd, "]"); ok {
			return tok, true
		}
		return lx.scanPunct(":{},")
	default:
		return lx.scanPunct(":")
	}
}

func (lx *Lexer) scanFlowOperator() (token.Token, bool) {
	for _, re := range flowLinkPatterns {
		if tok, ok := lx.matchRegexp(re, token.Link); ok {
			return tok, true
		}
	}
	if tok, ok := lx.matchRegexp(flowStartLink, token.StartLink); ok {
		return tok, true
	}
	if tok, ok := lx.matchLiteral(token.StyleSep, ":::"); ok {
		return tok, true
	}
	if tok, ok := lx.matchLiteral(token.ShapeStart, token.ShapeOpeners()...); ok {
		return tok, true
	}
	if tok, ok := lx.matchLiteral(token.ShapeEnd, token.ShapeClosers()...); ok {
		return tok, true
	}
	return lx.scanPunct(":&|,")
}

func (lx *Lexer) scanClassOperator() (token.Token, bool) {
	start := lx.cursor.Mark()
	if tok, ok := lx.matchRegexp(classRelation, token.Relation); ok {
		// "-- owner": the aggregation end needs a non-word byte after it
		if strings.HasSuffix(tok.Text, "o") && len(tok.Text) > 2 && lx.wordByte(lx.cursor.Peek(), lx.cursor.PeekAt(1)) {
			lx.cursor.Reset(start)
			lx.cursor.Advance(len(tok.Text) - 1)
			tok = lx.emit(token.Relation, start)
		}
		return tok, true
	}
	if tok, ok := lx.matchLiteral(token.StyleSep, ":::"); ok {
		return tok, true
	}
	if tok, ok := lx.scanDelimited(token.Annotation, "<<", ">>"); ok {
		return tok, true
	}
	if tok, ok := lx.scanDelimited(token.Generic, "~", "~"); ok {
		return tok, true
	}
	if tok, ok := lx.matchLiteral(token.ShapeStart, "["); ok {
		return tok, true
	}
	if tok, ok := lx.matchLiteral(token.ShapeEnd, "]"); ok {
		return tok, true
	}
	return lx.scanPunct(":{},")
}

func (lx *Lexer) scanStateOperator() (token.Token, bool) {
	if tok, ok := lx.matchLiteral(token.Relation, "-->"); ok {
		return tok, true
	}
	if lx.cursor.HasPrefix("--") && lx.cursor.PeekAt(2) != '-' {
		return lx.matchLiteral(token.Relation, "--")
	}
	if tok, ok := lx.matchLiteral(token.StateEdge, "[*]"); ok {
		return tok, true
	}
	if tok, ok := lx.matchLiteral(token.StyleSep, ":::"); ok {
		return tok, true
	}
	if tok, ok := lx.scanDelimited(token.Annotation, "<<", ">>"); ok {
		return tok, true
	}
	return lx.scanPunct(":{},")
}

func (lx *Lexer) matchRegexp(re *regexp.Regexp, kind token.Kind) (token.Token, bool) {
	loc := re.FindIndex(lx.cursor.Rest())
	if loc == nil || loc[1] == 0 {
		return token.Token{}, false
	}
	start := lx.cursor.Mark()
	lx.cursor.Advance(loc[1])
	return lx.emit(kind, start), true
}

func (lx *Lexer) matchLiteral(kind token.Kind, lits ...string) (token.Token, bool) {
	start := lx.cursor.Mark()
	for _, lit := range lits {
		if lx.cursor.EatString(lit) {
			return lx.emit(kind, start), true
		}
	}
	return token.Token{}, false
}

// scanDelimited matches open ... close on a single line.
func (lx *Lexer) scanDelimited(kind token.Kind, open, close string) (token.Token, bool) {
	if !lx.cursor.HasPrefix(open) {
		return token.Token{}, false
	}
	rest := lx.cursor.Rest()[len(open):]
	if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	end := bytes.Index(rest, []byte(close))
	if end < 0 {
		return token.Token{}, false
	}
	start := lx.cursor.Mark()
	lx.cursor.Advance(len(open) + end + len(close))
	return lx.emit(kind, start), true
}

func (lx *Lexer) scanPunct(allowed string) (token.Token, bool) {
	b := lx.cursor.Peek()
	kind, ok := punct[b]
	if !ok || strings.IndexByte(allowed, b) < 0 {
		return token.Token{}, false
	}
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.emit(kind, start), true
}
