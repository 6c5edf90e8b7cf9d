// Package verify provides the image verification command.
package verify

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/docker"
	"github.com/seqpack/seqpack/internal/iostreams"
)

// VerifyOptions holds options for the verify command.
type VerifyOptions struct {
	IOStreams *iostreams.IOStreams
	Client    func(context.Context) (*docker.Client, error)
	Config    func() (*config.Config, error)

	Image string
	Probe bool
}

// NewCmdVerify creates the verify command.
func NewCmdVerify(f *cmdutil.Factory, runF func(context.Context, *VerifyOptions) error) *cobra.Command {
	opts := &VerifyOptions{
		IOStreams: f.IOStreams,
		Client:    f.Client,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:   "verify [image]",
		Short: "Verify a built image's runtime guarantees",
		Long: `Inspects a built image and checks that it carries the configured
runtime identity, working directory and module path.

With --probe, additionally runs a short-lived container from the image
and confirms the effective uid inside it is non-root. This catches
images whose USER directive looks right but whose entrypoint escalates
back to root.`,
		Example: `  # Verify the project's latest image
  seqpack verify

  # Verify a specific tag, including the runtime probe
  seqpack verify seqpack-demo:a1b2c3d4e5f6 --probe`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Image = args[0]
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return verifyRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Probe, "probe", false, "Run a container to confirm the effective runtime uid")

	return cmd
}

func verifyRun(ctx context.Context, opts *VerifyOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	cfg, err := opts.Config()
	if err != nil {
		return err
	}

	imageRef := opts.Image
	if imageRef == "" {
		imageRef = docker.ImageTag(cfg.Project)
	}

	client, err := opts.Client(ctx)
	if err != nil {
		return fmt.Errorf("connecting to Docker: %w", err)
	}

	verifier := docker.NewVerifier(client, cfg)
	result, err := verifier.Verify(ctx, imageRef, opts.Probe)
	if err != nil {
		return err
	}

	fmt.Fprintf(ios.Out, "Verifying %s\n\n", cs.Bold(result.Image))
	for _, check := range result.Checks {
		switch {
		case check.Skipped:
			fmt.Fprintf(ios.Out, "  %s %s: %s\n", cs.Muted("-"), check.Name, cs.Muted(check.Detail))
		case check.OK:
			fmt.Fprintf(ios.Out, "  %s %s: %s\n", cs.SuccessIcon(), check.Name, check.Detail)
		default:
			fmt.Fprintf(ios.Out, "  %s %s: %s\n", cs.FailureIcon(), check.Name, cs.Red(check.Detail))
		}
	}

	if !result.Passed() {
		fmt.Fprintf(ios.ErrOut, "\n%s\n", cs.Red("verification failed"))
		return cmdutil.SilentError
	}

	fmt.Fprintf(ios.Out, "\n%s\n", cs.Green("verification passed"))
	return nil
}
