package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/diagfmt"
	"mmdcheck/internal/engine"
	"mmdcheck/internal/lexer"
	"mmdcheck/internal/token"
)

func newTokenizeCmd() *cobra.Command {
	tokenizeCmd := &cobra.Command{
		Use:   "tokenize [flags] [file.mmd|-]",
		Short: "Dump the tokens of a diagram",
		Long: `Tokenize strips frontmatter, directives and comments, detects the diagram
type and prints the tokens the parser would see. Reads stdin without a file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokenize,
	}
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return tokenizeCmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	fs, id, err := readSource(cmd.Context(), st, cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	prep, err := engine.Prepare(fs, id)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим предупреждения препроцессора в stderr, если есть
	if len(prep.Warnings) > 0 {
		bag := diag.NewBag(maxDiagnostics)
		for _, w := range prep.Warnings {
			bag.Add(w)
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), pointAt(bag, id), fs, diagfmt.PrettyOpts{
			Color:   st.useColor(stderrFile(cmd)),
			Context: 2,
		})
	}

	lx := lexer.New(prep.File, lexer.Options{Grammar: prep.Grammar})
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	st.log.WithField("tokens", len(tokens)).Debug("tokenized")

	if format == "json" {
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), tokens)
	}
	return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), tokens, fs)
}
