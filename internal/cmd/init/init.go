// Package init provides the project scaffolding command.
package init

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/iostreams"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	IOStreams *iostreams.IOStreams
	WorkDir   string

	Project string
	Force   bool
}

// NewCmdInit creates the init command.
func NewCmdInit(f *cmdutil.Factory, runF func(*InitOptions) error) *cobra.Command {
	opts := &InitOptions{
		IOStreams: f.IOStreams,
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a seqpack project in the current directory",
		Long: `Creates seqpack.yaml and .seqpackignore in the working directory.

The project name defaults to the directory name. Edit seqpack.yaml
afterwards to pin the base image and declare the service entrypoint.`,
		Example: `  # Scaffold with the directory name as project name
  seqpack init

  # Scaffold with an explicit project name
  seqpack init --project relation-extractor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.WorkDir = f.WorkDir
			if runF != nil {
				return runF(opts)
			}
			return initRun(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Project, "project", "p", "", "Project name (defaults to directory name)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing files")

	return cmd
}

func initRun(opts *InitOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	project := opts.Project
	if project == "" {
		project = sanitizeProjectName(filepath.Base(opts.WorkDir))
	}

	configPath := filepath.Join(opts.WorkDir, config.ConfigFileName)
	ignorePath := filepath.Join(opts.WorkDir, config.IgnoreFileName)

	if !opts.Force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigFileName)
		}
	}

	content := fmt.Sprintf(config.DefaultConfigYAML, project)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.ConfigFileName, err)
	}
	fmt.Fprintf(ios.Out, "%s Created %s\n", cs.SuccessIcon(), config.ConfigFileName)

	if _, err := os.Stat(ignorePath); os.IsNotExist(err) || opts.Force {
		if err := os.WriteFile(ignorePath, []byte(config.DefaultIgnoreFile), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", config.IgnoreFileName, err)
		}
		fmt.Fprintf(ios.Out, "%s Created %s\n", cs.SuccessIcon(), config.IgnoreFileName)
	}

	fmt.Fprintf(ios.Out, "\nNext steps:\n")
	fmt.Fprintf(ios.Out, "  1. Review %s and pin your base image\n", config.ConfigFileName)
	fmt.Fprintf(ios.Out, "  2. Pin your dependencies in requirements.txt\n")
	fmt.Fprintf(ios.Out, "  3. Run %s to build the image\n", cs.Bold("seqpack build"))

	return nil
}

var invalidNameChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// sanitizeProjectName converts an arbitrary directory name into a valid
// project name: lowercase, restricted charset, letter first.
func sanitizeProjectName(name string) string {
	name = strings.ToLower(name)
	name = invalidNameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-_")
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		name = "seq2seq-" + name
		name = strings.TrimSuffix(name, "-")
	}
	return name
}
