package docker

import (
	"strings"
	"testing"

	"github.com/seqpack/seqpack/pkg/berth"
)

func TestProcessBuildOutput_Success(t *testing.T) {
	stream := strings.NewReader(
		`{"stream":"Step 1/6 : FROM python:3.10-slim-bookworm"}` + "\n" +
			`{"stream":" ---> abc123"}` + "\n" +
			`{"stream":"Successfully built abc123"}` + "\n",
	)
	if err := processBuildOutput(stream, true); err != nil {
		t.Errorf("processBuildOutput() error = %v, want nil", err)
	}
}

func TestProcessBuildOutput_BuildError(t *testing.T) {
	stream := strings.NewReader(
		`{"stream":"Step 4/6 : RUN pip install -r requirements.txt"}` + "\n" +
			`{"error":"executor failed running","errorDetail":{"message":"executor failed running"}}` + "\n",
	)
	err := processBuildOutput(stream, true)
	if err == nil {
		t.Fatal("processBuildOutput() should surface build errors")
	}
	if !strings.Contains(err.Error(), "executor failed running") {
		t.Errorf("error should carry the daemon message, got %v", err)
	}
}

func TestProcessBuildOutput_CorruptedStream(t *testing.T) {
	var lines []string
	for i := 0; i < 12; i++ {
		lines = append(lines, "this is not json")
	}
	err := processBuildOutput(strings.NewReader(strings.Join(lines, "\n")), false)
	if err == nil {
		t.Fatal("processBuildOutput() should reject a corrupted stream")
	}
	if !strings.Contains(err.Error(), "corrupted") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProcessBuildOutput_ToleratesOccasionalGarbage(t *testing.T) {
	stream := strings.NewReader(
		"garbage line\n" +
			`{"stream":"ok"}` + "\n" +
			"more garbage\n" +
			`{"stream":"done"}` + "\n",
	)
	if err := processBuildOutput(stream, false); err != nil {
		t.Errorf("isolated parse failures should not fail the build, got %v", err)
	}
}

func TestIsNotFoundError(t *testing.T) {
	if !isNotFoundError(berth.ErrImageNotFound("x", nil)) {
		t.Error("unmanaged image errors should count as not found")
	}
	if isNotFoundError(nil) {
		t.Error("nil is not a not-found error")
	}
	if isNotFoundError(berth.ErrImageBuildFailed(nil)) {
		t.Error("build failures are not not-found errors")
	}
}
