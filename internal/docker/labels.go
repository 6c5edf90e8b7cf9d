// Package docker provides seqpack-specific Docker middleware.
// It wraps pkg/berth with seqpack's label conventions and naming schemes.
package docker

import (
	"time"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/seqpack/seqpack/internal/config"
)

// Seqpack label keys for managed resources.
const (
	// LabelPrefix is the prefix for all seqpack labels (derived from config.LabelDomain).
	LabelPrefix = config.LabelDomain + "."

	// LabelManaged marks a resource as managed by seqpack.
	LabelManaged = LabelPrefix + "managed"

	// LabelProject identifies the project name.
	LabelProject = LabelPrefix + "project"

	// LabelVersion stores the seqpack version that created the resource.
	LabelVersion = LabelPrefix + "version"

	// LabelCreated stores the creation timestamp.
	LabelCreated = LabelPrefix + "created"

	// LabelContentDigest stores the digest of the rendered recipe and
	// manifest, used to detect whether a rebuild is actually needed.
	LabelContentDigest = LabelPrefix + "content-digest"

	// LabelBuildSession identifies the build invocation that produced an image.
	LabelBuildSession = LabelPrefix + "build-session"

	// LabelPurpose identifies the purpose of a short-lived container.
	LabelPurpose = LabelPrefix + "purpose"
)

// EngineLabelPrefix is the label prefix for berth.EngineOptions (without
// trailing dot). The engine adds its own dot separator.
const EngineLabelPrefix = config.LabelDomain

// ManagedLabelValue is the value for the managed label.
const ManagedLabelValue = "true"

// ImageLabels returns labels for a built image. The OCI annotation keys
// are included alongside the seqpack keys so generic registry tooling can
// read the provenance without knowing seqpack's label domain.
func ImageLabels(project, version, contentDigest, session string) map[string]string {
	created := time.Now().UTC().Format(time.RFC3339)
	labels := map[string]string{
		LabelManaged:       ManagedLabelValue,
		LabelVersion:       version,
		LabelCreated:       created,
		LabelBuildSession:  session,
		LabelContentDigest: contentDigest,

		ocispec.AnnotationCreated: created,
		ocispec.AnnotationTitle:   project,
		ocispec.AnnotationVendor:  "seqpack",
	}
	if project != "" {
		labels[LabelProject] = project
	}
	return labels
}

// ProbeLabels returns labels for a verification probe container.
func ProbeLabels(project string) map[string]string {
	labels := map[string]string{
		LabelManaged: ManagedLabelValue,
		LabelPurpose: "probe",
		LabelCreated: time.Now().UTC().Format(time.RFC3339),
	}
	if project != "" {
		labels[LabelProject] = project
	}
	return labels
}
