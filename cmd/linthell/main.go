package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ludo-technologies/linthell/internal/constants"
	"github.com/ludo-technologies/linthell/internal/version"
	"github.com/spf13/cobra"
)

// ExitError ends the process with Code. Message, when set, is printed to stderr.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(handleError(err, os.Stderr))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linthell",
		Short: "linthell - adopt linters in legacy code with a baseline",
		Long: `linthell filters linter output against a baseline of known violations,
so only new violations fail the build.

Violations are identified by file path, the text of the offending source
line and the message, not by line number, so the baseline survives edits
that move code around.

Exit codes:
  0 - No new violations
  1 - New violations, or outdated baseline entries with --check-outdated
  2 - Usage, configuration, linter or I/O error`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: "+constants.ConfigFileName+" searched upward)")

	rootCmd.AddCommand(baselineCmd())
	rootCmd.AddCommand(lintCmd())
	rootCmd.AddCommand(preCommitCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(parsersCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// handleError prints err and returns the process exit code
func handleError(err error, stderr io.Writer) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintf(stderr, "Error: %s\n", exitErr.Message)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return constants.ExitCodeError
}
