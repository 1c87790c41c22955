// Package token defines the terminals produced by the diagram lexer.
// Invariants:
//   - Token.Text is exactly the source slice covered by Token.Span.
//   - Kind.String() is the terminal name used in parse error messages
//     ("NEWLINE", "NODE_STRING", "EDGE_TEXT", ...).
//   - Keywords share one Kind; their terminal name is the keyword itself,
//     so "subgraph" and "end" print as 'subgraph' and 'end'.
//   - Grammar selects the keyword table and operator set of the lexer.
package token
