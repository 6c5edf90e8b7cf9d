package docker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"

	"github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/dockerfile"
	"github.com/seqpack/seqpack/internal/logger"
	"github.com/seqpack/seqpack/internal/manifest"
)

// Builder runs the image packaging pipeline for a project: manifest
// validation, recipe rendering, context assembly and the daemon build.
type Builder struct {
	client  *Client
	config  *config.Config
	workDir string
	version string
}

// BuilderOptions contains options for build operations.
type BuilderOptions struct {
	ForceBuild bool              // Rebuild even when the content digest matches
	NoCache    bool              // Build without the Docker layer cache
	Pull       bool              // Always pull the base image
	Quiet      bool              // Suppress the daemon's build output
	Labels     map[string]string // Extra labels for the built image
	Tags       []string          // Additional tags (merged with the primary tag)
}

// BuildResult describes a completed (or skipped) build.
type BuildResult struct {
	ImageTag   string        // Primary floating tag
	DigestTag  string        // Content-addressed tag
	Digest     digest.Digest // Digest over recipe and manifest
	Session    string        // Build session identifier
	Skipped    bool          // True when the digest tag already existed
	Unpinned   []string      // Manifest entries without exact pins (warned, not fatal)
	Dockerfile []byte        // Rendered recipe
}

// NewBuilder creates a new Builder instance.
func NewBuilder(cli *Client, cfg *config.Config, workDir, version string) *Builder {
	return &Builder{
		client:  cli,
		config:  cfg,
		workDir: workDir,
		version: version,
	}
}

// EnsureImage ensures the project image is available, building if needed.
// The digest over the rendered recipe and the manifest decides whether
// anything actually changed; a matching content-addressed tag skips the
// build and only re-points the floating tag.
func (b *Builder) EnsureImage(ctx context.Context, opts BuilderOptions) (*BuildResult, error) {
	prep, err := b.prepare()
	if err != nil {
		return nil, err
	}

	if !opts.ForceBuild {
		exists, err := b.client.ImageExists(ctx, prep.DigestTag)
		if err != nil {
			return nil, fmt.Errorf("failed to check image existence for %s: %w", prep.DigestTag, err)
		}
		if exists {
			logger.Debug().
				Str("image", prep.DigestTag).
				Msg("image up-to-date, skipping build")

			if err := b.client.ImageTag(ctx, prep.DigestTag, prep.ImageTag); err != nil {
				return nil, fmt.Errorf("failed to update :latest alias: %w", err)
			}
			prep.Skipped = true
			return prep, nil
		}
	}

	return b.build(ctx, prep, opts)
}

// Build unconditionally rebuilds the project image.
func (b *Builder) Build(ctx context.Context, opts BuilderOptions) (*BuildResult, error) {
	prep, err := b.prepare()
	if err != nil {
		return nil, err
	}
	return b.build(ctx, prep, opts)
}

// prepare runs everything that must succeed before any daemon traffic:
// manifest parsing and validation, recipe rendering and digest computation.
// A broken manifest fails here, before the context tar is even assembled.
func (b *Builder) prepare() (*BuildResult, error) {
	gen := dockerfile.NewGenerator(b.config, b.workDir)

	manifestPath := filepath.Join(gen.ContextDir(), b.config.Build.Manifest)
	m, err := manifest.ParseFile(manifestPath)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var unpinned []string
	for _, req := range m.Unpinned() {
		unpinned = append(unpinned, req.Name)
		logger.Warn().Str("requirement", req.Name).Msg("manifest entry is not pinned to an exact version")
	}

	rendered, err := gen.Generate()
	if err != nil {
		return nil, err
	}

	dgst, err := contentDigest(rendered, manifestPath)
	if err != nil {
		return nil, err
	}

	return &BuildResult{
		ImageTag:   ImageTag(b.config.Project),
		DigestTag:  ImageTagWithDigest(b.config.Project, dgst),
		Digest:     dgst,
		Session:    uuid.NewString(),
		Unpinned:   unpinned,
		Dockerfile: rendered,
	}, nil
}

func (b *Builder) build(ctx context.Context, prep *BuildResult, opts BuilderOptions) (*BuildResult, error) {
	gen := dockerfile.NewGenerator(b.config, b.workDir)

	buildCtx, err := gen.BuildContext()
	if err != nil {
		return nil, fmt.Errorf("failed to assemble build context: %w", err)
	}

	labels := mergeImageLabels(opts.Labels, b.config.Build.Labels, ImageLabels(
		b.config.Project, b.version, prep.Digest.String(), prep.Session,
	))

	tags := append([]string{prep.ImageTag, prep.DigestTag}, opts.Tags...)

	logger.Debug().
		Str("image", prep.ImageTag).
		Str("session", prep.Session).
		Msg("building container image")

	err = b.client.BuildImage(ctx, buildCtx, BuildImageOpts{
		Tags:           tags,
		NoCache:        opts.NoCache,
		Pull:           opts.Pull,
		Labels:         labels,
		SuppressOutput: opts.Quiet,
	})
	if err != nil {
		return nil, err
	}
	return prep, nil
}

// mergeImageLabels layers label maps left to right, with seqpack's internal
// labels last so user labels cannot override them.
func mergeImageLabels(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

// contentDigest computes the digest that names a build: the rendered
// recipe concatenated with the raw manifest bytes. Source changes do not
// move the digest; they are covered by Docker's own layer cache.
func contentDigest(rendered []byte, manifestPath string) (digest.Digest, error) {
	manifestBytes, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", fmt.Errorf("failed to read manifest for digest: %w", err)
	}
	payload := make([]byte, 0, len(rendered)+len(manifestBytes)+1)
	payload = append(payload, rendered...)
	payload = append(payload, '\n')
	payload = append(payload, manifestBytes...)
	return digest.FromBytes(payload), nil
}
