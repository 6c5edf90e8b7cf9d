package docker

import (
	"testing"

	"github.com/opencontainers/go-digest"
)

func TestImageTag(t *testing.T) {
	if got, want := ImageTag("relation-extractor"), "seqpack-relation-extractor:latest"; got != want {
		t.Errorf("ImageTag() = %q, want %q", got, want)
	}
}

func TestImageTagWithDigest(t *testing.T) {
	dgst := digest.FromString("recipe")
	got := ImageTagWithDigest("demo", dgst)

	want := "seqpack-demo:" + dgst.Encoded()[:12]
	if got != want {
		t.Errorf("ImageTagWithDigest() = %q, want %q", got, want)
	}
}

func TestProbeContainerName(t *testing.T) {
	got := ProbeContainerName("demo", "abc123")
	if got != "seqpack.demo.probe-abc123" {
		t.Errorf("ProbeContainerName() = %q", got)
	}
}

func TestParseImageTag(t *testing.T) {
	tests := []struct {
		name        string
		ref         string
		wantProject string
		wantOK      bool
	}{
		{"floating tag", "seqpack-demo:latest", "demo", true},
		{"digest tag", "seqpack-demo:a1b2c3d4e5f6", "demo", true},
		{"hyphenated project", "seqpack-relation-extractor:latest", "relation-extractor", true},
		{"no tag", "seqpack-demo", "demo", true},
		{"foreign image", "python:3.10-slim-bookworm", "", false},
		{"prefix only", "seqpack-:latest", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, ok := ParseImageTag(tt.ref)
			if ok != tt.wantOK || project != tt.wantProject {
				t.Errorf("ParseImageTag(%q) = (%q, %v), want (%q, %v)",
					tt.ref, project, ok, tt.wantProject, tt.wantOK)
			}
		})
	}
}
