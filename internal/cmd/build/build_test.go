package build

import (
	"context"
	"testing"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/iostreams"
)

func TestNewCmdBuild(t *testing.T) {
	ios, _, _, _ := iostreams.Test()
	f := &cmdutil.Factory{
		IOStreams: ios,
		WorkDir:   "/tmp/proj",
		Version:   "0.1.0",
	}

	var gotOpts *BuildOptions
	cmd := NewCmdBuild(f, func(_ context.Context, opts *BuildOptions) error {
		gotOpts = opts
		return nil
	})
	cmd.SetArgs([]string{"--force", "--no-cache", "--quiet", "--tag", "extra:v1", "--label", "team=ml", "--label", "env=ci"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !gotOpts.Force || !gotOpts.NoCache || !gotOpts.Quiet {
		t.Error("flags should be captured in options")
	}
	if len(gotOpts.Tags) != 1 || gotOpts.Tags[0] != "extra:v1" {
		t.Errorf("Tags = %v", gotOpts.Tags)
	}
	if gotOpts.Labels["team"] != "ml" || gotOpts.Labels["env"] != "ci" {
		t.Errorf("Labels = %v", gotOpts.Labels)
	}
	if gotOpts.WorkDir != "/tmp/proj" {
		t.Errorf("WorkDir = %q", gotOpts.WorkDir)
	}
	if gotOpts.Version != "0.1.0" {
		t.Errorf("Version = %q", gotOpts.Version)
	}
}

func TestNewCmdBuild_RejectsArgs(t *testing.T) {
	ios, _, _, _ := iostreams.Test()
	f := &cmdutil.Factory{IOStreams: ios}

	cmd := NewCmdBuild(f, func(_ context.Context, _ *BuildOptions) error { return nil })
	cmd.SetArgs([]string{"positional"})
	cmd.SetOut(ios.Out)
	cmd.SetErr(ios.ErrOut)

	if err := cmd.Execute(); err == nil {
		t.Error("build takes no positional arguments")
	}
}
