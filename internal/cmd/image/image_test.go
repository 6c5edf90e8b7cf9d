package image

import (
	"testing"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/iostreams"
)

func TestNewCmdImage_Subcommands(t *testing.T) {
	ios, _, _, _ := iostreams.Test()
	f := &cmdutil.Factory{IOStreams: ios}

	cmd := NewCmdImage(f)

	want := []string{"build", "ls", "rm"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub == cmd {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
}
