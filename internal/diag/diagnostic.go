package diag

import (
	"mmdcheck/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Token is the terminal name found at Primary ("EOF", "NEWLINE", ...).
	Token string
	// Expected lists terminal names the grammar would have accepted, quoted the
	// way the parse error message prints them.
	Expected []string
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithFound records the offending terminal and the accepted alternatives.
func (d Diagnostic) WithFound(token string, expected ...string) Diagnostic {
	d.Token = token
	if len(expected) > 0 {
		d.Expected = append([]string(nil), expected...)
	}
	return d
}
