// Package generate provides the Dockerfile generation command.
package generate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/dockerfile"
	"github.com/seqpack/seqpack/internal/iostreams"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	IOStreams *iostreams.IOStreams
	Config    func() (*config.Config, error)
	WorkDir   string

	Output string
}

// NewCmdGenerate creates the generate command.
func NewCmdGenerate(f *cmdutil.Factory, runF func(*GenerateOptions) error) *cobra.Command {
	opts := &GenerateOptions{
		IOStreams: f.IOStreams,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the Dockerfile without building",
		Long: `Renders the Dockerfile that a build would use and prints it to
stdout, or writes it to a file with --output.

Useful for auditing the image recipe or feeding it to external
build systems.`,
		Example: `  # Print the Dockerfile
  seqpack generate

  # Write it next to the config
  seqpack generate --output Dockerfile`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.WorkDir = f.WorkDir
			if runF != nil {
				return runF(opts)
			}
			return generateRun(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the Dockerfile to a file instead of stdout")

	return cmd
}

func generateRun(opts *GenerateOptions) error {
	cfg, err := opts.Config()
	if err != nil {
		return err
	}

	validator := config.NewValidator(opts.WorkDir)
	if err := validator.Validate(cfg); err != nil {
		return err
	}
	printWarnings(opts.IOStreams, validator.Warnings())

	gen := dockerfile.NewGenerator(cfg, opts.WorkDir)
	rendered, err := gen.Generate()
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, rendered, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.Output, err)
		}
		cs := opts.IOStreams.ColorScheme()
		fmt.Fprintf(opts.IOStreams.Out, "%s Wrote %s\n", cs.SuccessIcon(), opts.Output)
		return nil
	}

	fmt.Fprint(opts.IOStreams.Out, string(rendered))
	return nil
}

func printWarnings(ios *iostreams.IOStreams, warnings []string) {
	cs := ios.ColorScheme()
	for _, w := range warnings {
		fmt.Fprintf(ios.ErrOut, "%s %s\n", cs.WarningIcon(), w)
	}
}
