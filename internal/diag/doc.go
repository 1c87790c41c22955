// Package diag defines the diagnostic model shared by the diagram pipeline.
//
// Producers (preprocessor, lexer, parser, sanitizer) emit Diagnostic values
// through the Reporter interface and never format them. Rendering lives in
// internal/diagfmt; the engine turns the first error into a ParseError and
// the validator turns that into the Invalid result the CLI prints.
//
// Diagnostic fields:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: numeric identifier with a stable string ID such as SYN2001.
//   - Message: a one-line description. The multi-line "Parse error on
//     line N" text is rendered by the engine from Primary, Token and Expected.
//   - Primary: the span of the offending terminal.
//   - Token, Expected: the terminal found and the terminals the grammar would
//     have accepted. Both are empty for errors that have no grammar position.
//   - Notes: secondary spans, used sparingly.
//
// Bag stores diagnostics up to a limit and offers Sort, Dedup and First.
package diag
