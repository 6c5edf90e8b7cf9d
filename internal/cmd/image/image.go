// Package image provides the image management command and its subcommands.
package image

import (
	"github.com/spf13/cobra"

	buildcmd "github.com/seqpack/seqpack/internal/cmd/build"
	"github.com/seqpack/seqpack/internal/cmd/image/list"
	"github.com/seqpack/seqpack/internal/cmd/image/remove"
	"github.com/seqpack/seqpack/internal/cmdutil"
)

// NewCmdImage creates the image management command.
// This is a parent command that groups image-related subcommands.
func NewCmdImage(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Manage seqpack images",
		Long: `Manage images built by seqpack.

Only images carrying the seqpack managed label are visible to these
commands; images built by other tools are never listed or removed.`,
		Example: `  # List seqpack images
  seqpack image ls

  # Remove an image
  seqpack image rm seqpack-demo:latest`,
	}

	// build is also reachable as a top-level command; this instance keeps
	// the docker-style `image build` spelling working.
	cmd.AddCommand(buildcmd.NewCmdBuild(f, nil))
	cmd.AddCommand(list.NewCmdList(f, nil))
	cmd.AddCommand(remove.NewCmdRemove(f, nil))

	return cmd
}
