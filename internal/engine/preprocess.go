package engine

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/source"
)

// Frontmatter is the decoded leading --- block.
type Frontmatter struct {
	Title       string
	DisplayMode string
	Config      map[string]any
}

// Directive is one %%{type: args}%% block.
type Directive struct {
	Span source.Span
	Type string
	Args any
}

type preprocessed struct {
	// text has frontmatter, directives and comment lines replaced by blanks;
	// byte offsets and line numbers match the input.
	text []byte
	// stripped has them removed, for the unknown-diagram message.
	stripped   string
	front      *Frontmatter
	directives []Directive
	config     map[string]any
	warnings   []diag.Diagnostic
}

var (
	frontmatterRe = regexp.MustCompile(`(?s)^-{3}\s*\n(.*?)\n-{3}\s*\n+`)
	directiveHead = regexp.MustCompile(`^\s*(\w+)\s*(:?)`)
	anyCommentRe  = regexp.MustCompile(`(?m)\s*%%.*\n`)
)

const (
	directiveOpen  = "%%{"
	directiveClose = "}%%"
)

func preprocess(f *source.File) (*preprocessed, error) {
	text := bytes.Clone(f.Content)
	pp := &preprocessed{text: text, config: map[string]any{}}
	var stripped strings.Builder

	rest := 0
	if m := frontmatterRe.FindSubmatchIndex(text); m != nil {
		front, err := decodeFrontmatter(text[m[2]:m[3]])
		if err != nil {
			return nil, err
		}
		pp.front = front
		mergeConfig(pp.config, front.Config)
		blank(text, 0, m[1])
		rest = m[1]
	}

	for pos := rest; ; {
		i := bytes.Index(text[pos:], []byte(directiveOpen))
		if i < 0 {
			stripped.Write(text[pos:])
			break
		}
		start := pos + i
		stripped.Write(text[pos:start])
		body := start + len(directiveOpen)
		end := bytes.Index(text[body:], []byte(directiveClose))
		var stop int
		if end < 0 {
			stop = lineEnd(text, body)
			pp.warn(diag.PreUnclosedDirective, f, start, stop, "directive is not closed with '}%%'")
		} else {
			stop = body + end + len(directiveClose)
			pp.directive(f, start, stop, string(text[body:body+end]))
		}
		blank(text, start, stop)
		pos = stop
	}

	blankCommentLines(text)
	pp.stripped = anyCommentRe.ReplaceAllString(stripped.String(), "\n")
	return pp, nil
}

func decodeFrontmatter(body []byte) (*Frontmatter, error) {
	var raw any
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return nil, &FrontmatterError{Err: err}
	}
	front := &Frontmatter{}
	m, ok := raw.(map[string]any)
	if !ok {
		// scalars and lists carry no settings
		return front, nil
	}
	if v, ok := m["title"]; ok && v != nil {
		front.Title = fmt.Sprint(v)
	}
	if v, ok := m["displayMode"]; ok && v != nil {
		front.DisplayMode = fmt.Sprint(v)
	}
	if cfg, ok := m["config"].(map[string]any); ok {
		front.Config = cfg
	}
	return front, nil
}

// directive records one closed directive. Unknown types are kept but have
// no effect; init arguments that fail to decode become a warning.
func (pp *preprocessed) directive(f *source.File, start, stop int, body string) {
	m := directiveHead.FindStringSubmatch(body)
	if m == nil {
		pp.warn(diag.PreBadDirective, f, start, stop, "directive has no type")
		return
	}
	d := Directive{Span: span(f, start, stop), Type: strings.ToLower(m[1])}
	if m[2] == ":" {
		args := strings.TrimSpace(body[len(m[0]):])
		if err := yaml.Unmarshal([]byte(args), &d.Args); err != nil {
			pp.warn(diag.PreBadDirective, f, start, stop, fmt.Sprintf("cannot decode %s arguments: %v", d.Type, err))
			return
		}
	}
	pp.directives = append(pp.directives, d)

	switch d.Type {
	case "init", "initialize":
		cfg, ok := d.Args.(map[string]any)
		if !ok {
			if d.Args != nil {
				pp.warn(diag.PreBadDirective, f, start, stop, d.Type+" arguments must be a map")
			}
			return
		}
		if inner, ok := cfg["config"].(map[string]any); ok {
			cfg = inner
		}
		mergeConfig(pp.config, cfg)
	case "wrap":
		pp.config["wrap"] = true
	}
}

func (pp *preprocessed) warn(code diag.Code, f *source.File, start, stop int, msg string) {
	pp.warnings = append(pp.warnings, diag.New(diag.SevWarning, code, span(f, start, stop), msg))
}

// blankCommentLines clears lines whose first non-blank characters are %%.
func blankCommentLines(text []byte) {
	for start := 0; start < len(text); {
		end := lineEnd(text, start)
		line := bytes.TrimLeft(text[start:end], " \t")
		if bytes.HasPrefix(line, []byte("%%")) {
			blank(text, start, end)
		}
		start = end + 1
	}
}

func lineEnd(text []byte, from int) int {
	if i := bytes.IndexByte(text[from:], '\n'); i >= 0 {
		return from + i
	}
	return len(text)
}

// blank overwrites text[start:stop] with spaces, keeping newlines.
func blank(text []byte, start, stop int) {
	for i := start; i < stop; i++ {
		if text[i] != '\n' {
			text[i] = ' '
		}
	}
}

func span(f *source.File, start, stop int) source.Span {
	return source.Span{File: f.ID, Start: uint32(start), End: uint32(stop)} // #nosec G115 -- offsets come from the file content
}
