// Package factory wires the real implementations behind cmdutil.Factory.
package factory

import (
	"context"
	"os"
	"sync"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/docker"
	"github.com/seqpack/seqpack/internal/iostreams"
	"github.com/seqpack/seqpack/internal/logger"
)

// New creates a fully-wired Factory with lazy-initialized dependency closures.
// Called exactly once at the CLI entry point.
// Tests should NOT import this package; construct &cmdutil.Factory{} directly.
func New(version, commit string) *cmdutil.Factory {
	ios := iostreams.NewIOStreams()

	// Commands colorize stderr too (warnings, error icons), so both
	// streams must be terminals for color to stay on.
	if !ios.IsOutputTTY() || !ios.IsStderrTTY() || os.Getenv("NO_COLOR") != "" {
		ios.SetColorEnabled(false)
	}

	workDir, err := os.Getwd()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to resolve working directory")
	}

	f := &cmdutil.Factory{
		Version:   version,
		Commit:    commit,
		WorkDir:   workDir,
		IOStreams: ios,
	}

	// --- Lazy dependency closures ---

	// Docker client
	var (
		clientOnce sync.Once
		client     *docker.Client
		clientErr  error
	)
	f.Client = func(ctx context.Context) (*docker.Client, error) {
		clientOnce.Do(func() {
			client, clientErr = docker.NewClient(ctx, version)
		})
		return client, clientErr
	}
	f.CloseClient = func() {
		if client != nil {
			client.Close()
		}
	}

	// Config
	var (
		loaderOnce   sync.Once
		configLoader *config.Loader
		configData   *config.Config
		configErr    error
	)
	f.ConfigLoader = func() *config.Loader {
		loaderOnce.Do(func() {
			configLoader = config.NewLoader(f.WorkDir)
		})
		return configLoader
	}
	f.Config = func() (*config.Config, error) {
		if configData != nil || configErr != nil {
			return configData, configErr
		}
		configData, configErr = f.ConfigLoader().Load()
		return configData, configErr
	}
	f.ResetConfig = func() {
		configData = nil
		configErr = nil
	}

	return f
}
