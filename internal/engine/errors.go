package engine

import (
	"fmt"
	"strings"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/source"
)

// Loc is the token range of a parse failure. Lines are 1-based, columns
// 0-based rune offsets within the line.
type Loc struct {
	FirstLine   int
	LastLine    int
	FirstColumn int
	LastColumn  int
}

// Hash is the structured location attached to a parse failure. Lexical
// failures fill only Text and Line.
type Hash struct {
	Text     string
	Token    string
	Line     int
	Loc      *Loc
	Expected []string
}

// ParseError is returned by Parse when the diagram text is rejected.
type ParseError struct {
	Message string
	Hash    *Hash
	Code    diag.Code
}

func (e *ParseError) Error() string {
	return e.Message
}

const unknownDiagramPrefix = "No diagram type detected matching given configuration for text: "

// UnknownDiagramError means no grammar claims the text.
type UnknownDiagramError struct {
	// Text is the input with frontmatter, directives and comments removed.
	Text string
}

func (e *UnknownDiagramError) Error() string {
	return unknownDiagramPrefix + e.Text
}

// FrontmatterError wraps a YAML failure in the leading --- block.
type FrontmatterError struct {
	Err error
}

func (e *FrontmatterError) Error() string {
	return "invalid frontmatter: " + e.Err.Error()
}

func (e *FrontmatterError) Unwrap() error {
	return e.Err
}

// contextWidth is how much text the error excerpt shows on each side.
const contextWidth = 20

// newParseError renders the first error diagnostic of a parse.
func newParseError(f *source.File, d diag.Diagnostic) *ParseError {
	start := int(d.Primary.Start)
	end := int(d.Primary.End)
	if end < start {
		end = start
	}
	content := string(f.Content)
	if end > len(content) {
		end = len(content)
	}
	if start > end {
		start = end
	}

	if d.Code >= diag.LexInfo && d.Code < diag.SynInfo {
		line := 1 + strings.Count(content[:start], "\n")
		return &ParseError{
			Message: fmt.Sprintf("Lexical error on line %d. Unrecognized text.\n%s",
				line, showPosition(content[:start], "", content[start:])),
			Hash: &Hash{Line: line},
			Code: d.Code,
		}
	}

	match := content[start:end]
	line := 1 + strings.Count(content[:end], "\n")
	var got string
	if len(d.Expected) > 0 {
		got = fmt.Sprintf("Expecting %s, got '%s'", strings.Join(d.Expected, ", "), d.Token)
	} else {
		got = fmt.Sprintf("Unexpected '%s'", d.Token)
	}
	return &ParseError{
		Message: fmt.Sprintf("Parse error on line %d:\n%s\n%s",
			line, showPosition(content[:start], match, content[end:]), got),
		Hash: &Hash{
			Text:     match,
			Token:    d.Token,
			Line:     line,
			Loc:      locate(f, d.Primary),
			Expected: append([]string(nil), d.Expected...),
		},
		Code: d.Code,
	}
}

func locate(f *source.File, sp source.Span) *Loc {
	first := f.Position(sp.Start)
	last := f.Position(sp.End)
	return &Loc{
		FirstLine:   int(first.Line),
		LastLine:    int(last.Line),
		FirstColumn: runeColumn(f, first),
		LastColumn:  runeColumn(f, last),
	}
}

func runeColumn(f *source.File, lc source.LineCol) int {
	line := f.GetLine(lc.Line)
	col := int(lc.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	if col < 0 {
		col = 0
	}
	return len([]rune(line[:col]))
}

// showPosition prints the text around the failure with a caret under it:
// up to 20 runes before, the matched token and what follows it.
func showPosition(past, match, rest string) string {
	pre := pastInput(past)
	return pre + upcomingInput(match, rest) + "\n" + strings.Repeat("-", len([]rune(pre))) + "^"
}

func pastInput(past string) string {
	r := []rune(past)
	prefix := ""
	if len(r) > contextWidth {
		prefix = "..."
		r = r[len(r)-contextWidth:]
	}
	return prefix + strings.ReplaceAll(string(r), "\n", "")
}

func upcomingInput(match, rest string) string {
	next := []rune(match)
	if len(next) < contextWidth {
		more := []rune(rest)
		if n := contextWidth - len(next); len(more) > n {
			more = more[:n]
		}
		next = append(next, more...)
	}
	suffix := ""
	if len(next) > contextWidth {
		suffix = "..."
		next = next[:contextWidth]
	}
	return strings.ReplaceAll(string(next)+suffix, "\n", "")
}
