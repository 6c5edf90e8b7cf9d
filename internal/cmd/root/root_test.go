package root

import (
	"errors"
	"testing"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/iostreams"
)

func testFactory() *cmdutil.Factory {
	ios, _, _, _ := iostreams.Test()
	return &cmdutil.Factory{
		IOStreams: ios,
		Version:   "0.1.0",
		Config: func() (*config.Config, error) {
			return nil, errors.New("no config in tests")
		},
	}
}

func TestNewCmdRoot_RegistersCommands(t *testing.T) {
	cmd, err := NewCmdRoot(testFactory(), "0.1.0", "abc1234")
	if err != nil {
		t.Fatalf("NewCmdRoot() error = %v", err)
	}

	want := []string{"init", "generate", "build", "verify", "image", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command should register %q", name)
		}
	}
}

func TestNewCmdRoot_WrapsFlagErrors(t *testing.T) {
	f := testFactory()
	cmd, err := NewCmdRoot(f, "0.1.0", "abc1234")
	if err != nil {
		t.Fatalf("NewCmdRoot() error = %v", err)
	}
	cmd.SetArgs([]string{"--definitely-not-a-flag"})
	cmd.SetOut(f.IOStreams.Out)
	cmd.SetErr(f.IOStreams.ErrOut)

	execErr := cmd.Execute()
	if execErr == nil {
		t.Fatal("unknown flag should error")
	}

	var flagErr *cmdutil.FlagError
	if !errors.As(execErr, &flagErr) {
		t.Errorf("flag errors should be wrapped as *cmdutil.FlagError, got %T", execErr)
	}
}
