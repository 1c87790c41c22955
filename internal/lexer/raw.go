package lexer

import (
	"regexp"
	"strings"

	"mmdcheck/internal/token"
)

// Raw scanners read label text that has no token structure. Each of them
// drops a buffered lookahead first and never crosses a newline.

var (
	edgeTextClosers = map[string]*regexp.Regexp{
		"--": regexp.MustCompile(`^--+[-xo>]`),
		"==": regexp.MustCompile(`^==+[=xo>]`),
		"-.": regexp.MustCompile(`^-?\.+-[xo>]?`),
	}
)

// SkipSpaces skips blanks inside the current line.
func (lx *Lexer) SkipSpaces() {
	lx.Rewind()
	lx.skipSpaces()
}

// PeekByte returns the next non-blank byte of the line without consuming it;
// 0 means end of input.
func (lx *Lexer) PeekByte() byte {
	lx.SkipSpaces()
	return lx.cursor.Peek()
}

// EatByte consumes b if it is the next non-blank byte.
func (lx *Lexer) EatByte(b byte) bool {
	lx.SkipSpaces()
	return lx.cursor.Eat(b)
}

// AtByte reports whether the byte right under the cursor is b, without
// skipping blanks.
func (lx *Lexer) AtByte(b byte) bool {
	lx.Rewind()
	return !lx.cursor.EOF() && lx.cursor.Peek() == b
}

// AtLineEnd reports whether only blanks or a comment remain on the line.
func (lx *Lexer) AtLineEnd() bool {
	lx.SkipSpaces()
	b := lx.cursor.Peek()
	return lx.cursor.EOF() || b == '\n' || b == ';' ||
		(b == '%' && lx.cursor.PeekAt(1) == '%') ||
		(b == '#' && lx.hashComments())
}

// Text scans free text up to the end of the line, a '%%' comment or any byte
// in stops. Blanks around the text are not part of the token.
func (lx *Lexer) Text(stops string) token.Token {
	lx.SkipSpaces()
	start := lx.cursor.Mark()
	end := start
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || strings.IndexByte(stops, b) >= 0 {
			break
		}
		if b == '%' && lx.cursor.PeekAt(1) == '%' {
			break
		}
		lx.cursor.Bump()
		if !isBlank(b) {
			end = lx.cursor.Mark()
		}
	}
	lx.cursor.Reset(end)
	return lx.emitRange(token.Text, start, end)
}

// Field scans one blank-delimited run (an er attribute type or name).
func (lx *Lexer) Field() token.Token {
	lx.SkipSpaces()
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isBlank(b) || b == '\n' || b == '"' || b == ',' || b == '}' {
			break
		}
		lx.cursor.Bump()
	}
	return lx.emit(token.Word, start)
}

// Quoted scans a "..." token if one starts here.
func (lx *Lexer) Quoted() (token.Token, bool) {
	lx.SkipSpaces()
	if lx.cursor.Peek() != '"' {
		return token.Token{}, false
	}
	return lx.scanString(), true
}

// ShapeOpen matches a node shape opener after optional blanks.
func (lx *Lexer) ShapeOpen() (token.Token, bool) {
	lx.SkipSpaces()
	return lx.matchLiteral(token.ShapeStart, token.ShapeOpeners()...)
}

// labelDelims cannot appear in unquoted shape text; the label ends there and
// the parser reports the delimiter as the unexpected token.
const labelDelims = "[](){}|\""

// ShapeText scans the label inside a shape: either one "..." string or raw
// text up to the first closer valid for open or the first label delimiter.
func (lx *Lexer) ShapeText(open string) token.Token {
	lx.SkipSpaces()
	if lx.cursor.Peek() == '"' {
		return lx.scanString()
	}
	closers := token.ClosersFor(open)
	start := lx.cursor.Mark()
	end := start
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || strings.IndexByte(labelDelims, b) >= 0 || lx.atCloser(closers) {
			break
		}
		lx.cursor.Bump()
		if !isBlank(b) {
			end = lx.cursor.Mark()
		}
	}
	lx.cursor.Reset(end)
	return lx.emitRange(token.Text, start, end)
}

// ShapeClose consumes a closer that pairs with open.
func (lx *Lexer) ShapeClose(open string) (token.Token, token.Delims, bool) {
	lx.SkipSpaces()
	for _, d := range token.ClosersFor(open) {
		if tok, ok := lx.matchLiteral(token.ShapeEnd, d.Close); ok {
			return tok, d, true
		}
	}
	return token.Token{}, token.Delims{}, false
}

func (lx *Lexer) atCloser(closers []token.Delims) bool {
	for _, d := range closers {
		if lx.cursor.HasPrefix(d.Close) {
			return true
		}
	}
	return false
}

// EdgeText scans the text of "A-- text -->B" up to the link that closes
// startLink. ok is false when no text precedes the closer or the line end.
func (lx *Lexer) EdgeText(startLink string) (token.Token, bool) {
	closer, found := edgeTextClosers[strings.TrimLeft(startLink, "xo<")]
	if !found {
		return token.Token{}, false
	}
	lx.SkipSpaces()
	start := lx.cursor.Mark()
	end := start
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || closer.Match(lx.cursor.Rest()) {
			break
		}
		lx.cursor.Bump()
		if !isBlank(b) {
			end = lx.cursor.Mark()
		}
	}
	lx.cursor.Reset(end)
	if end == start {
		return token.Token{}, false
	}
	return lx.emitRange(token.EdgeText, start, end), true
}

// PipeText scans the text between the pipes of -->|text|.
func (lx *Lexer) PipeText() token.Token {
	lx.SkipSpaces()
	if lx.cursor.Peek() == '"' {
		return lx.scanString()
	}
	return lx.Text("|")
}

// Actor scans a sequence participant name. Names may contain blanks and
// inner dashes; with alias set the name also stops before " as ".
func (lx *Lexer) Actor(alias bool) (token.Token, bool) {
	lx.SkipSpaces()
	start := lx.cursor.Mark()
	end := start
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if strings.IndexByte("+<>:\n,;#", b) >= 0 {
			break
		}
		if b == '-' && lx.dashEndsActor() {
			break
		}
		if alias && isBlank(b) && lx.aliasFollows() {
			break
		}
		lx.cursor.Bump()
		if !isBlank(b) {
			end = lx.cursor.Mark()
		}
	}
	lx.cursor.Reset(end)
	if end == start {
		return token.Token{}, false
	}
	return lx.emitRange(token.Word, start, end), true
}

// dashEndsActor reports whether the dash run under the cursor starts an arrow
// or trails the name.
func (lx *Lexer) dashEndsActor() bool {
	n := uint32(0)
	for lx.cursor.PeekAt(n) == '-' {
		n++
	}
	next := lx.cursor.PeekAt(n)
	return next == 0 || strings.IndexByte("+<>:\n,;x)", next) >= 0
}

func (lx *Lexer) aliasFollows() bool {
	rest := strings.TrimLeft(string(lx.cursor.Rest()), " \t")
	if !strings.HasPrefix(rest, "as") || len(rest) < 3 {
		return false
	}
	return isBlank(rest[2])
}

// Arrow matches a sequence message arrow after optional blanks.
func (lx *Lexer) Arrow() (token.Token, bool) {
	lx.SkipSpaces()
	return lx.matchLiteral(token.Arrow, sequenceArrows...)
}

// Block scans raw text across lines up to close and consumes close.
// ok is false when the input ends first.
func (lx *Lexer) Block(close byte) (token.Token, bool) {
	lx.Rewind()
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == close {
			tok := lx.emit(token.Text, start)
			lx.cursor.Bump()
			return tok, true
		}
		lx.cursor.Bump()
	}
	return lx.emit(token.Text, start), false
}
