// Package remove provides the image remove command.
package remove

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/image"
	"github.com/spf13/cobra"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/docker"
	"github.com/seqpack/seqpack/internal/iostreams"
)

// RemoveOptions holds options for the remove command.
type RemoveOptions struct {
	IOStreams *iostreams.IOStreams
	Client    func(context.Context) (*docker.Client, error)

	Images []string
	Force  bool
}

// NewCmdRemove creates the image remove command.
func NewCmdRemove(f *cmdutil.Factory, runF func(context.Context, *RemoveOptions) error) *cobra.Command {
	opts := &RemoveOptions{
		IOStreams: f.IOStreams,
		Client:    f.Client,
	}

	cmd := &cobra.Command{
		Use:     "remove <image>...",
		Aliases: []string{"rm"},
		Short:   "Remove seqpack images",
		Long: `Removes one or more seqpack-managed images.

Images not carrying the seqpack managed label are refused.`,
		Example: `  # Remove an image
  seqpack image rm seqpack-demo:latest

  # Force removal even when containers reference it
  seqpack image rm --force seqpack-demo:latest`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Images = args
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return removeRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Force removal of the image")

	return cmd
}

func removeRun(ctx context.Context, opts *RemoveOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	client, err := opts.Client(ctx)
	if err != nil {
		return fmt.Errorf("connecting to Docker: %w", err)
	}

	var failed int
	for _, ref := range opts.Images {
		_, err := client.ImageRemove(ctx, ref, image.RemoveOptions{
			Force:         opts.Force,
			PruneChildren: true,
		})
		if err != nil {
			failed++
			fmt.Fprintf(ios.ErrOut, "%s %s: %v\n", cs.FailureIcon(), ref, err)
			continue
		}
		fmt.Fprintf(ios.Out, "%s Removed %s\n", cs.SuccessIcon(), ref)
	}

	if failed > 0 {
		return cmdutil.SilentError
	}
	return nil
}
