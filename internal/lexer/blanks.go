package lexer

import "mmdcheck/internal/token"

// skipBlanks skips spaces, tabs and comments but never a newline:
// newlines are statement separators.
func (lx *Lexer) skipBlanks() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isBlank(b):
			lx.cursor.Bump()
		case b == '%' && lx.cursor.PeekAt(1) == '%':
			lx.skipLine()
		case b == '#' && lx.hashComments():
			lx.skipLine()
		default:
			return
		}
	}
}

// skipLine stops in front of the newline.
func (lx *Lexer) skipLine() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) skipSpaces() {
	for isBlank(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// '#' starts a comment only in the line-oriented grammars
func (lx *Lexer) hashComments() bool {
	switch lx.opts.Grammar {
	case token.GrammarSequence, token.GrammarGantt, token.GrammarJourney:
		return true
	}
	return false
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}
