package list

import (
	"context"
	"testing"

	"github.com/docker/docker/api/types/image"

	"github.com/seqpack/seqpack/internal/cmdutil"
	"github.com/seqpack/seqpack/internal/iostreams"
)

func TestNewCmdList(t *testing.T) {
	ios, _, _, _ := iostreams.Test()
	f := &cmdutil.Factory{IOStreams: ios}

	var gotOpts *ListOptions
	cmd := NewCmdList(f, func(_ context.Context, opts *ListOptions) error {
		gotOpts = opts
		return nil
	})
	cmd.SetArgs([]string{"-q"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !gotOpts.Quiet {
		t.Error("Quiet should be set")
	}
}

func TestTruncateID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sha256:0123456789abcdef0123", "0123456789ab"},
		{"0123456789abcdef", "0123456789ab"},
		{"short", "short"},
	}
	for _, tt := range tests {
		if got := truncateID(tt.in); got != tt.want {
			t.Errorf("truncateID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayRefs(t *testing.T) {
	tagged := image.Summary{RepoTags: []string{"seqpack-demo:latest", "seqpack-demo:abc123"}}
	if refs := displayRefs(tagged); len(refs) != 2 {
		t.Errorf("displayRefs() = %v", refs)
	}

	untagged := image.Summary{}
	if refs := displayRefs(untagged); len(refs) != 1 || refs[0] != "<none>:<none>" {
		t.Errorf("displayRefs() = %v", refs)
	}
}
