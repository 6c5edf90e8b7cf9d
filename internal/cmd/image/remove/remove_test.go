package remove

import (
	"context"
	"testing"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/iostreams"
)

func TestNewCmdRemove(t *testing.T) {
	ios, _, _, _ := iostreams.Test()
	f := &cmdutil.Factory{IOStreams: ios}

	var gotOpts *RemoveOptions
	cmd := NewCmdRemove(f, func(_ context.Context, opts *RemoveOptions) error {
		gotOpts = opts
		return nil
	})
	cmd.SetArgs([]string{"seqpack-demo:latest", "seqpack-other:latest", "--force"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(gotOpts.Images) != 2 {
		t.Errorf("Images = %v", gotOpts.Images)
	}
	if !gotOpts.Force {
		t.Error("Force should be set")
	}
}

func TestNewCmdRemove_RequiresArgs(t *testing.T) {
	ios, _, _, _ := iostreams.Test()
	f := &cmdutil.Factory{IOStreams: ios}

	cmd := NewCmdRemove(f, func(_ context.Context, _ *RemoveOptions) error { return nil })
	cmd.SetArgs([]string{})
	cmd.SetOut(ios.Out)
	cmd.SetErr(ios.ErrOut)

	if err := cmd.Execute(); err == nil {
		t.Error("remove requires at least one image argument")
	}
}
