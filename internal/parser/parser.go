package parser

import (
	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/lexer"
	"mmdcheck/internal/source"
	"mmdcheck/internal/token"
)

type Options struct {
	Reporter diag.Reporter
	// Hints presizes the statement and label arenas.
	Hints ast.Hints
}

type Result struct {
	Diagram *ast.Diagram
	// Failed is set once a syntax or lexical error was reported.
	Failed bool
}

// Parser builds one diagram. It stops at the first error, so every
// statement loop checks failed before consuming more input.
type Parser struct {
	lx       *lexer.Lexer
	b        *ast.Builder
	opts     Options
	lastSpan source.Span
	failed   bool
}

// ParseFile parses the file with the grammar the lexer was created for.
func ParseFile(lx *lexer.Lexer, opts Options) Result {
	p := &Parser{
		lx:   lx,
		b:    ast.NewBuilder(lx.Grammar(), opts.Hints),
		opts: opts,
	}

	if run, ok := grammars[lx.Grammar()]; ok {
		run(p)
	} else {
		p.unexpected(lx.Peek(), "DIAGRAM")
	}

	return Result{
		Diagram: p.b.Diagram(),
		Failed:  p.failed,
	}
}

// advance consumes the next token and remembers its span.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	p.lastSpan = tok.Span
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atKeyword(kw string) bool {
	return p.lx.Peek().Is(kw)
}

// expect consumes a token of kind k or reports it missing.
func (p *Parser) expect(k token.Kind, expected ...string) (token.Token, bool) {
	tok := p.lx.Peek()
	if tok.Kind == k {
		return p.advance(), true
	}
	if len(expected) == 0 {
		expected = []string{k.String()}
	}
	p.unexpected(tok, expected...)
	return token.Token{}, false
}

// expectWord consumes a name token.
func (p *Parser) expectWord(expected ...string) (token.Token, bool) {
	tok := p.lx.Peek()
	if tok.IsWord() {
		return p.advance(), true
	}
	p.unexpected(tok, expected...)
	return token.Token{}, false
}

func (p *Parser) report(d diag.Diagnostic) {
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(d)
	}
}
