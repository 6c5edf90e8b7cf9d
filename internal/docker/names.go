package docker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
)

// NamePrefix is used for all seqpack resource names.
const NamePrefix = "seqpack"

// hashTagLength is how many hex characters of the content digest end up
// in the image tag.
const hashTagLength = 12

// ImageTag generates the floating image tag: seqpack-project:latest
func ImageTag(project string) string {
	return fmt.Sprintf("%s-%s:latest", NamePrefix, project)
}

// ImageTagWithDigest generates the content-addressed image tag:
// seqpack-project:<first 12 hex chars of the digest>
func ImageTagWithDigest(project string, dgst digest.Digest) string {
	encoded := dgst.Encoded()
	if len(encoded) > hashTagLength {
		encoded = encoded[:hashTagLength]
	}
	return fmt.Sprintf("%s-%s:%s", NamePrefix, project, encoded)
}

// ProbeContainerName generates the name for a verification probe container:
// seqpack.project.probe-<session>
func ProbeContainerName(project, session string) string {
	return fmt.Sprintf("%s.%s.probe-%s", NamePrefix, project, session)
}

// shortID returns a short random identifier for probe container names.
func shortID() string {
	return uuid.NewString()[:8]
}

// ParseImageTag extracts the project name from a seqpack image tag.
// Returns false when the reference does not follow seqpack's scheme.
func ParseImageTag(ref string) (project string, ok bool) {
	name := ref
	if idx := strings.LastIndex(name, ":"); idx != -1 {
		name = name[:idx]
	}
	if !strings.HasPrefix(name, NamePrefix+"-") {
		return "", false
	}
	project = strings.TrimPrefix(name, NamePrefix+"-")
	if project == "" {
		return "", false
	}
	return project, true
}
