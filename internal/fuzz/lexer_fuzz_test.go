package fuzztests

import (
	"testing"

	"mmdcheck/internal/engine"
	"mmdcheck/internal/lexer"
	"mmdcheck/internal/source"
	"mmdcheck/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.mmd", input)
		prep, err := engine.Prepare(fs, fileID)
		if err != nil {
			return
		}

		lx := lexer.New(prep.File, lexer.Options{Grammar: prep.Grammar})
		size := uint32(len(prep.File.Content)) // #nosec G115 -- clamped to 64 KiB
		var last uint32
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Span.End > size || tok.Span.Start > tok.Span.End {
				t.Fatalf("token %d span %v outside content of %d bytes", i, tok.Span, size)
			}
			if tok.Span.Start < last {
				t.Fatalf("token %d moves backwards: %v after offset %d", i, tok.Span, last)
			}
			last = tok.Span.Start
			if tok.Kind == token.EOF {
				break
			}
			if i > len(input)+16 {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
		}
	})
}
