// Package list provides the image list command.
package list

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/docker"
	"github.com/seqpack/seqpack/internal/iostreams"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	IOStreams *iostreams.IOStreams
	Client    func(context.Context) (*docker.Client, error)

	Quiet bool
}

// NewCmdList creates the image list command.
func NewCmdList(f *cmdutil.Factory, runF func(context.Context, *ListOptions) error) *cobra.Command {
	opts := &ListOptions{
		IOStreams: f.IOStreams,
		Client:    f.Client,
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List seqpack images",
		Example: `  # List all seqpack images
  seqpack image list

  # IDs only
  seqpack image ls -q`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return listRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only display image IDs")

	return cmd
}

func listRun(ctx context.Context, opts *ListOptions) error {
	ios := opts.IOStreams

	client, err := opts.Client(ctx)
	if err != nil {
		return fmt.Errorf("connecting to Docker: %w", err)
	}

	images, err := client.ImageList(ctx)
	if err != nil {
		return fmt.Errorf("listing images: %w", err)
	}

	if len(images) == 0 {
		fmt.Fprintln(ios.ErrOut, "No seqpack images found.")
		return nil
	}

	if opts.Quiet {
		for _, img := range images {
			fmt.Fprintln(ios.Out, truncateID(img.ID))
		}
		return nil
	}

	w := tabwriter.NewWriter(ios.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REPOSITORY:TAG\tPROJECT\tID\tCREATED\tSIZE")
	for _, img := range images {
		project := img.Labels[docker.LabelProject]
		created := units.HumanDuration(time.Since(time.Unix(img.Created, 0))) + " ago"
		size := units.HumanSizeWithPrecision(float64(img.Size), 3)

		for _, ref := range displayRefs(img) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ref, project, truncateID(img.ID), created, size)
		}
	}
	return w.Flush()
}

// displayRefs returns the repo tags to render for an image, or a single
// <none> placeholder when the image is untagged.
func displayRefs(img image.Summary) []string {
	if len(img.RepoTags) == 0 {
		return []string{"<none>:<none>"}
	}
	return img.RepoTags
}

func truncateID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
