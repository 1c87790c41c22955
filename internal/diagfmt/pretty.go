package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	path, caret     *color.Color
	dim, ok         *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:   mk(color.FgRed, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		info:  mk(color.FgCyan),
		path:  mk(color.Bold),
		caret: mk(color.FgRed),
		dim:   mk(color.Faint),
		ok:    mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		pos := f.Position(d.Primary.Start)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			pal.path.Sprint(formatPath(f.Path, opts.PathMode, opts.BaseDir)),
			pos.Line, pos.Col,
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message)
		writeExcerpt(w, f, d.Primary, opts, pal)
		if len(d.Expected) > 0 {
			fmt.Fprintf(w, "  %s expecting %s, got '%s'\n", pal.dim.Sprint("="), strings.Join(d.Expected, ", "), d.Token)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			np := nf.Position(n.Span.Start)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.info.Sprint("note:"),
				formatPath(nf.Path, opts.PathMode, opts.BaseDir), np.Line, np.Col, n.Msg)
		}
	}
}

// writeExcerpt prints the context lines before the span, the span line and a
// caret line under it. Columns are measured in display cells.
func writeExcerpt(w io.Writer, f *source.File, sp source.Span, opts PrettyOpts, pal palette) {
	start := f.Position(sp.Start)
	gutter := len(fmt.Sprint(start.Line))

	first := start.Line
	if ctx := uint32(max(opts.Context, 0)); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	for ln := first; ln < start.Line; ln++ {
		fmt.Fprintf(w, "%s %s\n", pal.dim.Sprintf("%*d |", gutter, ln), clip(f.GetLine(ln), opts.Width))
	}

	line := f.GetLine(start.Line)
	fmt.Fprintf(w, "%s %s\n", pal.dim.Sprintf("%*d |", gutter, start.Line), clip(line, opts.Width))

	col := min(int(start.Col)-1, len(line))
	end := col + int(sp.End-sp.Start)
	end = min(end, len(line))

	var pad strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := max(runewidth.StringWidth(line[col:end]), 1)
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", pal.dim.Sprintf("%*s |", gutter, ""), pad.String(), pal.caret.Sprint(marker))
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "...")
}
