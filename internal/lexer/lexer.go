package lexer

import (
	"mmdcheck/internal/source"
	"mmdcheck/internal/token"
)

// Lexer turns diagram text into terminals of one grammar. Parsers mix Next/Peek
// with the raw scanners in raw.go where label text has no token structure.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Grammar returns the grammar the lexer was created for.
func (lx *Lexer) Grammar() token.Grammar {
	return lx.opts.Grammar
}

// File returns the file being scanned.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipBlanks()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	start := lx.cursor.Mark()
	switch lx.cursor.Peek() {
	case '\n':
		lx.cursor.Bump()
		return lx.emit(token.Newline, start)
	case ';':
		lx.cursor.Bump()
		return lx.emit(token.Semi, start)
	case '"':
		return lx.scanString()
	}

	if tok, ok := lx.scanOperator(); ok {
		return tok
	}
	if isDec(lx.cursor.Peek()) {
		return lx.scanNumber()
	}
	if lx.isWordStart() {
		return lx.scanWord()
	}

	// ни одно правило не подошло: один символ уходит в Invalid
	lx.bumpRune()
	return lx.emit(token.Invalid, start)
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// Rewind drops a buffered lookahead and moves the cursor back to its start,
// so a raw scanner can read the same bytes differently.
func (lx *Lexer) Rewind() {
	if lx.look == nil {
		return
	}
	lx.cursor.Reset(Mark(lx.look.Span.Start))
	lx.look = nil
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

func (lx *Lexer) emitRange(kind token.Kind, start, end Mark) token.Token {
	sp := source.Span{File: lx.file.ID, Start: uint32(start), End: uint32(end)}
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
