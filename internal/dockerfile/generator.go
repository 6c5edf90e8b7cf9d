package dockerfile

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/shlex"
	"github.com/moby/buildkit/frontend/dockerfile/instructions"
	"github.com/moby/buildkit/frontend/dockerfile/parser"
	"github.com/moby/patternmatcher"
	"github.com/moby/patternmatcher/ignorefile"

	"github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/logger"
)

// GenerateContext holds the data for Dockerfile template rendering.
type GenerateContext struct {
	BaseImage     string
	Username      string
	UID           int
	GID           int
	WorkspacePath string
	SourcePath    string
	PathEnv       string
	ManifestFile  string
	Packages      []string
	Env           map[string]string
	Labels        map[string]string
	Entrypoint    string // exec-form JSON array, empty when unset
}

// Generator renders image recipes from configuration.
type Generator struct {
	config  *config.Config
	workDir string
}

// NewGenerator creates a new Dockerfile generator.
func NewGenerator(cfg *config.Config, workDir string) *Generator {
	return &Generator{
		config:  cfg,
		workDir: workDir,
	}
}

// Generate renders the Dockerfile for the configured project.
func (g *Generator) Generate() ([]byte, error) {
	ctx, err := g.templateContext()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("Dockerfile").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(DockerfileTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Dockerfile template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("failed to render Dockerfile template: %w", err)
	}

	rendered := buf.Bytes()
	if err := Lint(rendered); err != nil {
		return nil, err
	}
	return rendered, nil
}

// Lint parses a rendered Dockerfile and rejects anything the BuildKit
// frontend would refuse, so broken recipes fail before a daemon round trip.
func Lint(dockerfile []byte) error {
	result, err := parser.Parse(bytes.NewReader(dockerfile))
	if err != nil {
		return fmt.Errorf("generated Dockerfile is invalid: %w", err)
	}
	for _, warning := range result.Warnings {
		logger.Warn().Str("detail", warning.Short).Msg("dockerfile lint warning")
	}
	if _, _, err := instructions.Parse(result.AST, nil); err != nil {
		return fmt.Errorf("generated Dockerfile is invalid: %w", err)
	}
	return nil
}

// ContextDir resolves the effective build context directory.
func (g *Generator) ContextDir() string {
	if g.config.Build.Context != "" {
		path := g.config.Build.Context
		if !filepath.IsAbs(path) {
			path = filepath.Join(g.workDir, path)
		}
		return path
	}
	return g.workDir
}

// BuildContext produces the tar archive sent to the daemon: the rendered
// Dockerfile plus the context directory filtered through the ignore file.
// An unreadable file inside the context aborts the archive rather than
// producing an image with silently missing source.
func (g *Generator) BuildContext() (io.Reader, error) {
	dockerfile, err := g.Generate()
	if err != nil {
		return nil, err
	}
	return g.buildContextWith(dockerfile)
}

func (g *Generator) buildContextWith(dockerfile []byte) (io.Reader, error) {
	buf := new(bytes.Buffer)
	tw := tar.NewWriter(buf)

	if err := addFileToTar(tw, "Dockerfile", dockerfile); err != nil {
		return nil, err
	}

	matcher, err := g.ignoreMatcher()
	if err != nil {
		return nil, err
	}

	contextDir := g.ContextDir()
	manifest := filepath.ToSlash(g.config.Build.Manifest)

	err = filepath.Walk(contextDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to read build context entry %s: %w", path, err)
		}

		relPath, err := filepath.Rel(contextDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		// The rendered Dockerfile shadows any checked-in one.
		if relPath == "Dockerfile" {
			return nil
		}

		// The manifest is always shipped, even if an ignore pattern
		// would otherwise catch it.
		if relPath != manifest && g.ignored(matcher, relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = relPath

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if info.Mode().IsRegular() {
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to read build context entry %s: %w", path, err)
			}
			defer file.Close()

			if _, err := io.Copy(tw, file); err != nil {
				return fmt.Errorf("failed to archive %s: %w", relPath, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}

	return buf, nil
}

// ignoreMatcher loads the ignore file from the project root. A missing
// ignore file means nothing is excluded.
func (g *Generator) ignoreMatcher() (*patternmatcher.PatternMatcher, error) {
	f, err := os.Open(filepath.Join(g.workDir, config.IgnoreFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", config.IgnoreFileName, err)
	}
	defer f.Close()

	patterns, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", config.IgnoreFileName, err)
	}

	return patternmatcher.New(patterns)
}

func (g *Generator) ignored(matcher *patternmatcher.PatternMatcher, relPath string) bool {
	// .git never ships regardless of the ignore file.
	if relPath == ".git" || strings.HasPrefix(relPath, ".git/") {
		return true
	}
	if matcher == nil {
		return false
	}
	ignored, err := matcher.MatchesOrParentMatches(relPath)
	if err != nil {
		logger.Warn().Str("path", relPath).Err(err).Msg("ignore pattern match failed")
		return false
	}
	return ignored
}

// templateContext assembles the render context from configuration.
func (g *Generator) templateContext() (GenerateContext, error) {
	cfg := g.config

	ctx := GenerateContext{
		BaseImage:     cfg.Build.Image,
		Username:      cfg.Identity.User,
		UID:           cfg.Identity.UID,
		GID:           cfg.Identity.GID,
		WorkspacePath: cfg.Workspace.Path,
		SourcePath:    cfg.Workspace.SourceRootPath(),
		PathEnv:       cfg.Workspace.PathEnv,
		ManifestFile:  filepath.ToSlash(cfg.Build.Manifest),
		Packages:      cfg.Build.Packages,
		Env:           cfg.Service.Env,
		Labels:        cfg.Build.Labels,
	}

	if cfg.Service.Entrypoint != "" {
		entrypoint, err := execForm(cfg.Service.Entrypoint)
		if err != nil {
			return GenerateContext{}, fmt.Errorf("invalid service.entrypoint: %w", err)
		}
		ctx.Entrypoint = entrypoint
	}

	return ctx, nil
}

// execForm converts a shell-style command string into the exec-form JSON
// array Docker expects, so the entrypoint never runs under a shell.
func execForm(command string) (string, error) {
	parts, err := shlex.Split(command)
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("entrypoint is empty after parsing")
	}
	encoded, err := json.Marshal(parts)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// addFileToTar adds an in-memory file to a tar archive.
func addFileToTar(tw *tar.Writer, name string, content []byte) error {
	header := &tar.Header{
		Name: name,
		Mode: 0644,
		Size: int64(len(content)),
	}

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", name, err)
	}

	if _, err := tw.Write(content); err != nil {
		return fmt.Errorf("failed to write tar content for %s: %w", name, err)
	}

	return nil
}
