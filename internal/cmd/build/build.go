// Package build provides the image build command.
package build

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/docker"
	"github.com/seqpack/seqpack/internal/iostreams"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	IOStreams *iostreams.IOStreams
	Client    func(context.Context) (*docker.Client, error)
	Config    func() (*config.Config, error)
	WorkDir   string
	Version   string

	Force   bool
	NoCache bool
	Pull    bool
	Quiet   bool
	Labels  map[string]string
	Tags    []string
}

// NewCmdBuild creates the build command.
func NewCmdBuild(f *cmdutil.Factory, runF func(context.Context, *BuildOptions) error) *cobra.Command {
	opts := &BuildOptions{
		IOStreams: f.IOStreams,
		Client:    f.Client,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the project image",
		Long: `Builds the container image for the project in the working directory.

The build is content-addressed: the rendered recipe and the dependency
manifest are hashed, and if an image for that hash already exists the
build is skipped and only the floating tag is moved. Source changes are
handled by Docker's layer cache, not the content hash.

The dependency manifest is parsed and validated before anything is sent
to the daemon, so a malformed or conflicting manifest fails in
milliseconds instead of after a context upload.`,
		Example: `  # Build (or skip when nothing changed)
  seqpack build

  # Rebuild even when the content hash matches
  seqpack build --force

  # Rebuild from scratch, bypassing the layer cache
  seqpack build --force --no-cache

  # Tag the result additionally
  seqpack build --tag registry.example.com/ml/demo:v3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.WorkDir = f.WorkDir
			opts.Version = f.Version
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return buildRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Rebuild even when the content hash matches")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Build without the Docker layer cache")
	cmd.Flags().BoolVar(&opts.Pull, "pull", false, "Always pull the base image")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress build output, print only the image tags")
	cmd.Flags().StringToStringVar(&opts.Labels, "label", nil, "Extra labels for the built image (KEY=VALUE)")
	cmd.Flags().StringArrayVarP(&opts.Tags, "tag", "t", nil, "Additional tags for the built image")

	return cmd
}

func buildRun(ctx context.Context, opts *BuildOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	cfg, err := opts.Config()
	if err != nil {
		return err
	}

	validator := config.NewValidator(opts.WorkDir)
	if err := validator.Validate(cfg); err != nil {
		return err
	}
	for _, w := range validator.Warnings() {
		fmt.Fprintf(ios.ErrOut, "%s %s\n", cs.WarningIcon(), w)
	}

	client, err := opts.Client(ctx)
	if err != nil {
		return fmt.Errorf("connecting to Docker: %w", err)
	}

	builder := docker.NewBuilder(client, cfg, opts.WorkDir, opts.Version)
	result, err := builder.EnsureImage(ctx, docker.BuilderOptions{
		ForceBuild: opts.Force,
		NoCache:    opts.NoCache,
		Pull:       opts.Pull,
		Quiet:      opts.Quiet,
		Labels:     opts.Labels,
		Tags:       opts.Tags,
	})
	if err != nil {
		return err
	}

	for _, name := range result.Unpinned {
		fmt.Fprintf(ios.ErrOut, "%s %s is not pinned to an exact version\n", cs.WarningIcon(), name)
	}

	if opts.Quiet {
		fmt.Fprintf(ios.Out, "%s\n", result.DigestTag)
		return nil
	}

	if result.Skipped {
		fmt.Fprintf(ios.Out, "%s %s is up to date (%s)\n", cs.SuccessIcon(), result.ImageTag, result.DigestTag)
		return nil
	}

	fmt.Fprintf(ios.Out, "%s Built %s\n", cs.SuccessIcon(), result.ImageTag)
	fmt.Fprintf(ios.Out, "  content tag: %s\n", cs.Cyan(result.DigestTag))
	return nil
}
