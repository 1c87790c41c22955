// Package engine parses Mermaid diagram text. It strips frontmatter and
// directives, picks the grammar, parses with the first error stopping the
// run and sanitizes every label with the configured security level.
package engine

import (
	"context"
	"fmt"
	"sync"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/lexer"
	"mmdcheck/internal/parser"
	"mmdcheck/internal/sanitize"
	"mmdcheck/internal/source"
	"mmdcheck/internal/token"
)

// maxDiagnostics bounds the bag of one parse; the parser stops at the first
// error, so only directive warnings add to it.
const maxDiagnostics = 64

// Engine parses diagrams; it is safe for concurrent use after Initialize.
type Engine struct {
	purifier *sanitize.Purifier

	mu  sync.RWMutex
	cfg Config
}

// New returns an engine that sanitizes labels with p. A nil purifier gets a
// fresh unbound one.
func New(p *sanitize.Purifier) *Engine {
	if p == nil {
		p = sanitize.New()
	}
	return &Engine{purifier: p, cfg: DefaultConfig()}
}

// Initialize replaces the engine configuration. An empty security level
// means strict.
func (e *Engine) Initialize(cfg Config) {
	if cfg.SecurityLevel == "" {
		cfg.SecurityLevel = sanitize.LevelStrict
	}
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()
}

// Config returns the current configuration.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// Parse validates text and returns its diagram. Rejected text yields
// *ParseError, *UnknownDiagramError or *FrontmatterError.
func (e *Engine) Parse(ctx context.Context, text string) (*ast.Diagram, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<input>", []byte(text))
	d, _, err := e.ParseFile(ctx, fs, id)
	return d, err
}

// Prepared is a source after preprocessing and grammar detection.
type Prepared struct {
	// File is the blanked version of the source, added to the same FileSet.
	File        *source.File
	Grammar     token.Grammar
	Frontmatter *Frontmatter
	Directives  []Directive
	Config      map[string]any
	Warnings    []diag.Diagnostic
}

// Prepare preprocesses file id and detects its grammar. The cleaned text is
// stored in fs as a new version of the same path.
func Prepare(fs *source.FileSet, id source.FileID) (*Prepared, error) {
	f := fs.Get(id)
	pp, err := preprocess(f)
	if err != nil {
		return nil, err
	}
	g, ok := parser.Detect(string(pp.text))
	if !ok {
		return nil, &UnknownDiagramError{Text: pp.stripped}
	}
	cleanID := fs.Add(f.Path, pp.text, f.Flags)
	return &Prepared{
		File:        fs.Get(cleanID),
		Grammar:     g,
		Frontmatter: pp.front,
		Directives:  pp.directives,
		Config:      pp.config,
		Warnings:    pp.warnings,
	}, nil
}

// ParseFile runs the whole pipeline on file id. The bag holds the parser
// diagnostics and directive warnings; it is nil when preprocessing failed.
func (e *Engine) ParseFile(ctx context.Context, fs *source.FileSet, id source.FileID) (*ast.Diagram, *diag.Bag, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	cfg := e.Config()

	prep, err := Prepare(fs, id)
	if err != nil {
		return nil, nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	for _, w := range prep.Warnings {
		bag.Add(w)
	}
	lx := lexer.New(prep.File, lexer.Options{Grammar: prep.Grammar})
	res := parser.ParseFile(lx, parser.Options{
		Reporter: &diag.BagReporter{Bag: bag},
		Hints:    ast.Hints{Stmts: uint(len(prep.File.Content) / 16)},
	})
	if err := ctx.Err(); err != nil {
		return nil, bag, err
	}
	if res.Failed {
		for _, d := range bag.Items() {
			if d.Severity == diag.SevError {
				return nil, bag, newParseError(prep.File, d)
			}
		}
		// the bag dropped the error; report without a location
		return nil, bag, &ParseError{Code: diag.SynUnexpectedToken}
	}

	d := res.Diagram
	d.Config = prep.Config
	if d.Title == "" && prep.Frontmatter != nil {
		d.Title = prep.Frontmatter.Title
	}
	if err := sanitizeLabels(d, e.purifier, cfg.labelOptions(d.Config)); err != nil {
		return nil, bag, err
	}
	return d, bag, nil
}

func sanitizeLabels(d *ast.Diagram, p *sanitize.Purifier, opts sanitize.Options) error {
	return d.EachLabel(func(_ ast.LabelID, l *ast.Label) error {
		text, err := p.SanitizeText(l.Raw, opts)
		if err != nil {
			return fmt.Errorf("sanitize label %q: %w", l.Raw, err)
		}
		l.Text = text
		return nil
	})
}
