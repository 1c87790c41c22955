package lexer

import "mmdcheck/internal/token"

type Options struct {
	// Grammar selects keywords, word characters and operators.
	Grammar token.Grammar
}
