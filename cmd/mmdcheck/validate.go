package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mmdcheck/internal/diagfmt"
	"mmdcheck/internal/input"
)

func runValidate(cmd *cobra.Command, _ []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	format := st.cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	format = strings.ToLower(format)
	switch format {
	case "json", "pretty", "feedback":
	default:
		return fmt.Errorf("unsupported format %q (must be json, pretty or feedback)", format)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if st.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, st.timeout)
		defer cancel()
	}

	endRead := st.timer.Track("read")
	text, err := input.ReadAll(ctx, cmd.InOrStdin(), input.Options{
		MaxBytes:    st.cfg.Input.MaxBytes,
		StripFences: st.cfg.Input.StripFences,
	})
	endRead(fmt.Sprintf("%d bytes", len(text)))
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	svc := st.newService()
	endValidate := st.timer.Track("validate")
	res, err := svc.Validate(ctx, text)
	endValidate("")
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	st.log.WithField("valid", res.Valid).Debug("validation finished")

	endEmit := st.timer.Track("emit")
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.WritePrettyResult(out, "", res, diagfmt.PrettyOpts{Color: st.useColor(stdoutFile(cmd))})
	case "feedback":
		err = diagfmt.WriteFeedback(out, res)
	default:
		err = diagfmt.WriteResult(out, res)
	}
	endEmit(format)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	st.writeTimings(cmd.ErrOrStderr())
	return nil
}
