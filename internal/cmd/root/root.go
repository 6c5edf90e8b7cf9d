// Package root assembles the seqpack command tree.
package root

import (
	"github.com/spf13/cobra"

	buildcmd "github.com/seqpack/seqpack/internal/cmd/build"
	"github.com/seqpack/seqpack/internal/cmd/generate"
	"github.com/seqpack/seqpack/internal/cmd/image"
	initcmd "github.com/seqpack/seqpack/internal/cmd/init"
	verifycmd "github.com/seqpack/seqpack/internal/cmd/verify"
	versioncmd "github.com/seqpack/seqpack/internal/cmd/version"
	"github.com/seqpack/seqpack/internal/cmdutil"
	internalconfig "github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/logger"
)

// NewCmdRoot creates the root command for the seqpack CLI.
func NewCmdRoot(f *cmdutil.Factory, version, commit string) (*cobra.Command, error) {
	var debug bool

	cmd := &cobra.Command{
		Use:   "seqpack",
		Short: "Package Python sequence models into reproducible container images",
		Long: `Seqpack builds locked-down container images for Python seq2seq
services: pinned base image, non-root runtime identity with stable
numeric IDs, manifest-first dependency install and a content-addressed
build cache.

Quick start:
  seqpack init       # Scaffold seqpack.yaml in the current directory
  seqpack build      # Build the image (skipped when nothing changed)
  seqpack verify     # Check the image's runtime guarantees`,
		SilenceUsage:  true,
		SilenceErrors: true, // renderError in internal/seqpack owns error output
		Version:       f.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			f.Debug = debug
			initializeLogger(debug, f)

			logger.Debug().
				Str("version", f.Version).
				Bool("debug", debug).
				Msg("seqpack starting")

			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cmdutil.FlagErrorWrap(err)
	})

	cmd.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "Enable debug logging")
	cmd.SetVersionTemplate(versioncmd.Format(version, commit) + "\n")

	cmd.AddCommand(initcmd.NewCmdInit(f, nil))
	cmd.AddCommand(generate.NewCmdGenerate(f, nil))
	cmd.AddCommand(buildcmd.NewCmdBuild(f, nil))
	cmd.AddCommand(verifycmd.NewCmdVerify(f, nil))
	cmd.AddCommand(image.NewCmdImage(f))
	cmd.AddCommand(versioncmd.NewCmdVersion(f, version, commit))

	return cmd, nil
}

// initializeLogger sets up the logger with file logging if possible.
// Falls back to console-only logging on any errors.
func initializeLogger(debug bool, f *cmdutil.Factory) {
	logsDir, err := internalconfig.LogsDir()
	if err != nil {
		logger.Init(debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to resolve logs directory")
		return
	}

	fileCfg := &logger.FileConfig{}
	if cfg, err := f.Config(); err == nil {
		if !cfg.Logging.IsFileEnabled() {
			logger.Init(debug)
			return
		}
		fileCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
		fileCfg.MaxAgeDays = cfg.Logging.MaxAgeDays
		fileCfg.MaxBackups = cfg.Logging.MaxBackups
	}

	if err := logger.InitWithFile(debug, logsDir, fileCfg); err != nil {
		logger.Init(debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to initialize file writer")
	}
}
