package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mmdcheck/internal/diagfmt"
	"mmdcheck/internal/validator"
)

func newParseCmd() *cobra.Command {
	parseCmd := &cobra.Command{
		Use:   "parse [flags] [file.mmd|-]",
		Short: "Parse a diagram and print its syntax tree",
		Long: `Parse runs the full validation pipeline on one diagram and prints the
resulting statement tree. Diagnostics go to stderr and a rejected diagram
exits with status 1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return parseCmd
}

func runParse(cmd *cobra.Command, args []string) error {
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
	ctx := cmd.Context()
	fs, id, err := readSource(ctx, st, cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	eng, err := st.newService().EnsureConfigured(ctx)
	if err != nil {
		return fmt.Errorf("load grammar engine: %w", err)
	}
	fe, ok := eng.(validator.FileEngine)
	if !ok {
		return fmt.Errorf("grammar engine cannot report syntax trees")
	}

	d, bag, parseErr := fe.ParseFile(ctx, fs, id)
	if bag != nil && bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), pointAt(bag, id), fs, diagfmt.PrettyOpts{
			Color:   st.useColor(stderrFile(cmd)),
			Context: 2,
		})
	}
	if parseErr != nil {
		return fmt.Errorf("parsing failed: %w", parseErr)
	}

	if format == "json" {
		return diagfmt.FormatDiagramJSON(cmd.OutOrStdout(), d)
	}
	return diagfmt.FormatDiagramPretty(cmd.OutOrStdout(), d, fs)
}
