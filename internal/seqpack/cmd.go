// Package seqpack hosts the CLI entry point.
package seqpack

import (
	"errors"
	"fmt"
	"os"

	"github.com/seqpack/seqpack/internal/cmd/factory"
	"github.com/seqpack/seqpack/internal/cmd/root"
	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/logger"
	"github.com/seqpack/seqpack/pkg/berth"
)

// Build-time variables injected via ldflags
var (
	Version = "dev"
	Commit  = "none"
)

// Main is the entry point for the seqpack CLI.
// It initializes the Factory, creates the root command, and executes it.
func Main() int {
	// Ensure logs are flushed on exit
	defer logger.CloseFileWriter()

	f := factory.New(Version, Commit)
	defer f.CloseClient()

	rootCmd, err := root.NewCmdRoot(f, Version, Commit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		return renderError(f, cmd.UsageString(), err)
	}

	return 0
}

// renderError maps command errors to exit codes and user-facing output.
func renderError(f *cmdutil.Factory, usage string, err error) int {
	ios := f.IOStreams
	cs := ios.ColorScheme()

	var exitErr *cmdutil.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, cmdutil.SilentError) {
		return 1
	}

	var flagErr *cmdutil.FlagError
	if errors.As(err, &flagErr) {
		fmt.Fprintf(ios.ErrOut, "%s %v\n\n%s", cs.FailureIcon(), flagErr, usage)
		return 2
	}

	var dockerErr *berth.DockerError
	if errors.As(err, &dockerErr) {
		fmt.Fprint(ios.ErrOut, dockerErr.FormatUserError())
		return 1
	}

	if config.IsConfigNotFound(err) {
		fmt.Fprintf(ios.ErrOut, "%s %v\n", cs.FailureIcon(), err)
		fmt.Fprintf(ios.ErrOut, "Run %s to scaffold one.\n", cs.Bold("seqpack init"))
		return 1
	}

	fmt.Fprintf(ios.ErrOut, "%s %v\n", cs.FailureIcon(), err)
	if f.Debug {
		if path := logger.GetLogFilePath(); path != "" {
			fmt.Fprintf(ios.ErrOut, "%s\n", cs.Muted("full logs: "+path))
		}
	}
	return 1
}
