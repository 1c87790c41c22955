package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mmdcheck/internal/version"
)

// newRootCmd builds the command tree. The root command itself validates
// stdin.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mmdcheck [flags] < diagram.mmd",
		Short: "Validate Mermaid diagram syntax",
		Long: `mmdcheck reads one Mermaid diagram from stdin, validates its syntax and
writes a single JSON document to stdout: {"valid":true} or an invalid result
with message, line, token and expected fields. Invalid diagrams are not
errors; the exit code is 1 only when the input cannot be read or the command
is misused.`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runValidate,
	}
	rootCmd.Flags().String("format", "", "output format (json|pretty|feedback)")
	rootCmd.Flags().Bool("strip-fences", false, "remove Markdown code fences around the diagram on stdin")

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to mmdcheck.toml (default: searched upwards from the working directory)")
	flags.String("security-level", "", "label security level (strict|loose|antiscript|sandbox)")
	flags.Int64("max-bytes", 0, "reject inputs larger than this many bytes (0=unlimited)")
	flags.Duration("timeout", 0, "abort reading and validation after this long (0=none)")
	flags.String("log-level", "", "log level for stderr (panic|fatal|error|warn|info|debug|trace)")
	flags.String("color", "", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "print phase timings to stderr")
	flags.String("cpu-profile", "", "write CPU profile to file")
	flags.String("mem-profile", "", "write heap profile to file on exit")
	flags.String("runtime-trace", "", "write runtime trace to file")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// main executes the root command. Any returned error is printed to stderr
// and exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mmdcheck: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}

// stdoutFile returns the command output when it is a real file.
func stdoutFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.OutOrStdout().(*os.File)
	return f
}

func stderrFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.ErrOrStderr().(*os.File)
	return f
}
