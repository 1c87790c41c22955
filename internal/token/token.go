package token

import (
	"strings"

	"mmdcheck/internal/source"
)

// Token represents a single terminal with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// Terminal returns the name the parser reports for this token.
// Keywords print as themselves, shapes by their opener/closer name.
func (t Token) Terminal() string {
	switch t.Kind {
	case Keyword:
		return strings.ToLower(t.Text)
	case ShapeStart:
		if name, ok := shapeStartNames[t.Text]; ok {
			return name
		}
	case ShapeEnd:
		if name, ok := shapeEndNames[t.Text]; ok {
			return name
		}
	}
	return t.Kind.String()
}

// IsSeparator reports whether the token ends a statement.
func (t Token) IsSeparator() bool {
	return t.Kind == Newline || t.Kind == Semi
}

// IsEnd reports whether the token terminates a statement or the input.
func (t Token) IsEnd() bool {
	return t.IsSeparator() || t.Kind == EOF
}

// Is reports whether the token is the keyword kw (case-insensitive).
func (t Token) Is(kw string) bool {
	return t.Kind == Keyword && strings.EqualFold(t.Text, kw)
}

// IsWord reports whether the token is usable as a name.
func (t Token) IsWord() bool {
	return t.Kind == Word || t.Kind == Num
}
