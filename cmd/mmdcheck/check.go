package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mmdcheck/internal/diagfmt"
	"mmdcheck/internal/driver"
	"mmdcheck/internal/source"
	"mmdcheck/internal/version"
)

var errInvalidDiagrams = errors.New("some diagrams are invalid")

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [flags] <file|directory>...",
		Short: "Validate diagram files in batch",
		Long: `Check validates every named file and every matching file below the named
directories with one shared engine. It exits with status 1 when any diagram
is invalid or cannot be read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	checkCmd.Flags().String("format", "", "output format (json|pretty|short)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().StringSlice("include", nil, "glob patterns for files inside directories (default **.mmd, **.mermaid)")
	checkCmd.Flags().StringSlice("exclude", nil, "glob patterns to skip inside directories")
	checkCmd.Flags().String("cache", "", "result cache directory (auto|off|<dir>)")
	checkCmd.Flags().Bool("clear-cache", false, "drop every cached result before checking")
	checkCmd.Flags().String("ui", "", "progress UI (auto|on|off)")
	return checkCmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	flags := cmd.Flags()
	cc := st.cfg.Check
	if flags.Changed("jobs") {
		cc.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("include") {
		cc.Include, _ = flags.GetStringSlice("include")
	}
	if flags.Changed("exclude") {
		cc.Exclude, _ = flags.GetStringSlice("exclude")
	}
	if flags.Changed("cache") {
		cc.Cache, _ = flags.GetString("cache")
	}
	if flags.Changed("ui") {
		cc.UI, _ = flags.GetString("ui")
	}
	if cc.Jobs < 0 {
		return fmt.Errorf("--jobs must not be negative")
	}
	uiMode, err := readSwitch("ui", cc.UI)
	if err != nil {
		return err
	}
	format, err := checkFormat(cmd, st.cfg.Output.Format)
	if err != nil {
		return err
	}

	filter, err := driver.NewFilter(cc.Include, cc.Exclude)
	if err != nil {
		return err
	}
	endList := st.timer.Track("list")
	files, err := driver.ListFiles(args, filter)
	endList(fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no diagram files found")
	}

	cache, err := openCache(cc.Cache)
	if err != nil {
		return err
	}
	if clearCache, _ := flags.GetBool("clear-cache"); clearCache {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}

	svc := st.newService()
	opts := driver.CheckOptions{
		Service:     svc,
		Jobs:        cc.Jobs,
		MaxBytes:    st.cfg.Input.MaxBytes,
		Cache:       cache,
		Fingerprint: driver.Fingerprint(svc.Config(), version.Version),
		Log:         st.log,
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

	endCheck := st.timer.Track("check")
	var (
		fileSet *source.FileSet
		results []diagfmt.CheckedFile
	)
	if shouldUseTUI(uiMode) {
		fileSet, results, err = runCheckWithUI(ctx, "checking diagrams", files, opts)
	} else {
		fileSet, results, err = driver.Check(ctx, files, opts)
	}
	endCheck("")
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	wd, _ := os.Getwd()
	out := cmd.OutOrStdout()
	endEmit := st.timer.Track("emit")
	switch format {
	case "json":
		err = diagfmt.WriteCheckJSON(out, results, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         st.pathMode(),
			BaseDir:          wd,
		})
	case "short":
		err = diagfmt.WriteCheckShort(out, results, fileSet)
	default:
		err = diagfmt.WriteCheckPretty(out, results, fileSet, diagfmt.PrettyOpts{
			Color:    st.useColor(stdoutFile(cmd)),
			Context:  2,
			PathMode: st.pathMode(),
			BaseDir:  wd,
		})
	}
	endEmit(format)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	st.writeTimings(cmd.ErrOrStderr())

	for _, r := range results {
		if !r.Result.Valid {
			return errInvalidDiagrams
		}
	}
	return nil
}

// checkFormat picks the report format; the configured default falls back to
// pretty when it names a stdin-only format.
func checkFormat(cmd *cobra.Command, configured string) (string, error) {
	format := strings.ToLower(configured)
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
		format = strings.ToLower(format)
	} else if format != "json" && format != "short" {
		format = "pretty"
	}
	switch format {
	case "json", "pretty", "short":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be json, pretty or short)", format)
	}
}

func openCache(setting string) (*driver.DiskCache, error) {
	dir := strings.TrimSpace(setting)
	switch strings.ToLower(dir) {
	case "", "off":
		return nil, nil
	case "auto":
		var err error
		if dir, err = driver.DefaultCacheDir("mmdcheck"); err != nil {
			return nil, fmt.Errorf("locate cache directory: %w", err)
		}
	}
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return cache, nil
}

func shouldUseTUI(mode switchMode) bool {
	switch mode {
	case modeOn:
		return true
	case modeOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}
