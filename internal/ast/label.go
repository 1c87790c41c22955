package ast

import (
	"strings"

	"mmdcheck/internal/source"
)

// Label is user-visible text attached to a statement.
type Label struct {
	Span source.Span
	// Raw is the text as written, without surrounding quotes.
	Raw    string
	Quoted bool
	// Markdown marks "`...`" strings.
	Markdown bool
	// Text is Raw after sanitizing; empty until the engine fills it.
	Text string
}

type Labels struct {
	Arena *Arena[Label]
}

func NewLabels(capHint uint) *Labels {
	return &Labels{
		Arena: NewArena[Label](capHint),
	}
}

// New stores raw label text, unwrapping "..." and "`...`" forms.
func (l *Labels) New(raw string, span source.Span) LabelID {
	label := Label{Span: span, Raw: raw}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		label.Quoted = true
		label.Raw = raw[1 : len(raw)-1]
		inner := label.Raw
		if len(inner) >= 2 && inner[0] == '`' && inner[len(inner)-1] == '`' {
			label.Markdown = true
			label.Raw = strings.TrimSpace(inner[1 : len(inner)-1])
		}
	}
	return LabelID(l.Arena.Allocate(label))
}

func (l *Labels) Get(id LabelID) *Label {
	return l.Arena.Get(uint32(id))
}
