// Package version provides the version command.
package version

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqpack/seqpack/internal/cmdutil"
)

// NewCmdVersion creates the version command.
func NewCmdVersion(f *cmdutil.Factory, version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:    "version",
		Short:  "Show seqpack version",
		Hidden: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(f.IOStreams.Out, Format(version, commit))
		},
	}
}

// Format produces the version string shown by both `seqpack version`
// and `seqpack --version`.
func Format(version, commit string) string {
	version = strings.TrimPrefix(version, "v")
	var sb strings.Builder
	fmt.Fprintf(&sb, "seqpack version %s", version)
	if commit != "" {
		fmt.Fprintf(&sb, " (%s)", commit)
	}
	return sb.String()
}
