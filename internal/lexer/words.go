package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"mmdcheck/internal/token"
)

const utf8RuneSelf = 0x80

func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.cursor.Rest())
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isAlnum(b byte) bool {
	return isDec(b) || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// wordByte reports whether b continues (or starts) a word in the active
// grammar; next is the byte after b and decides the dash rules.
func (lx *Lexer) wordByte(b, next byte) bool {
	if isAlnum(b) || b == '_' {
		return true
	}
	switch lx.opts.Grammar {
	case token.GrammarFlowchart:
		switch b {
		case '!', '#', '$', '\'', '*', '+', '.', '`', '?', '\\', '/':
			return true
		case '-':
			// a dash followed by '>', '-' or '.' belongs to a link
			return next != 0 && next != '>' && next != '-' && next != '.'
		case '=':
			return next != 0 && next != '='
		}
	case token.GrammarClass, token.GrammarER:
		return b == '-' && isAlnum(next)
	case token.GrammarState:
		return b == '.' || (b == '-' && isAlnum(next))
	case token.GrammarPie, token.GrammarGantt, token.GrammarJourney:
		return b == '.' || b == '-'
	}
	return false
}

func (lx *Lexer) isWordStart() bool {
	b := lx.cursor.Peek()
	if b >= utf8RuneSelf {
		r, _ := lx.peekRune()
		return r != utf8.RuneError && !unicode.IsSpace(r)
	}
	return lx.wordByte(b, lx.cursor.PeekAt(1))
}

// scanWord scans a word and promotes it to Keyword when the grammar reserves it.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b >= utf8RuneSelf {
			r, _ := lx.peekRune()
			if unicode.IsSpace(r) {
				break
			}
			lx.bumpRune()
			continue
		}
		if !lx.wordByte(b, lx.cursor.PeekAt(1)) {
			break
		}
		lx.cursor.Bump()
	}

	tok := lx.emit(token.Word, start)
	if token.LookupKeyword(lx.opts.Grammar, tok.Text) {
		tok.Kind = token.Keyword
	}
	return tok
}

// scanNumber scans digits with an optional fraction. A number glued to word
// characters ("1st", "2A") is rescanned as a word.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if !lx.cursor.EOF() && lx.isWordStart() {
		lx.cursor.Reset(start)
		return lx.scanWord()
	}
	return lx.emit(token.Num, start)
}

// scanString scans "...". Newlines are allowed inside; a missing closing quote
// yields an Invalid token covering the rest of the input.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '"' {
			return lx.emit(token.Str, start)
		}
	}
	return lx.emit(token.Invalid, start)
}
