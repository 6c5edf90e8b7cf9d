package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validProjectDir creates a temp dir with a manifest and source root so
// a default-shaped config validates cleanly against it.
func validProjectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("torch==2.1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Project = "seq2seq"
	return cfg
}

func TestValidateValidConfig(t *testing.T) {
	dir := validProjectDir(t)
	v := NewValidator(dir)

	if err := v.Validate(validConfig()); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
	if len(v.Warnings()) != 0 {
		t.Errorf("Warnings() = %v, want none", v.Warnings())
	}
}

func TestValidateFloatingTag(t *testing.T) {
	dir := validProjectDir(t)

	floating := []string{
		"python:latest",
		"python",
		"python:",
		// A registry port is not a tag.
		"registry.example.com:5000/python",
		"registry.example.com:5000/python:latest",
	}
	for _, image := range floating {
		cfg := validConfig()
		cfg.Build.Image = image

		err := NewValidator(dir).Validate(cfg)
		if err == nil {
			t.Errorf("Validate() with image %q should fail", image)
			continue
		}
		if !strings.Contains(err.Error(), "build.image") {
			t.Errorf("error for %q should mention build.image, got %v", image, err)
		}
	}
}

func TestValidatePinnedImage(t *testing.T) {
	dir := validProjectDir(t)

	pinned := []string{
		"python:3.10-slim-bookworm",
		"registry.example.com:5000/python:3.10-slim-bookworm",
		"python@sha256:2b9a88dd39dbb1b9b788a2cbee4570e31b61e04e1dca0a31b5f357db64a0a9a6",
	}
	for _, image := range pinned {
		cfg := validConfig()
		cfg.Build.Image = image

		if err := NewValidator(dir).Validate(cfg); err != nil {
			t.Errorf("Validate() with image %q error = %v, want nil", image, err)
		}
	}
}

func TestValidateRootIdentity(t *testing.T) {
	dir := validProjectDir(t)

	cfg := validConfig()
	cfg.Identity.User = "root"
	cfg.Identity.UID = 0
	cfg.Identity.GID = 0

	err := NewValidator(dir).Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should reject a root identity")
	}

	var multi *MultiValidationError
	if !errors.As(err, &multi) {
		t.Fatalf("error should be MultiValidationError, got %T", err)
	}
	if len(multi.ValidationErrors()) != 3 {
		t.Errorf("expected 3 errors (user, uid, gid), got %d: %v", len(multi.ValidationErrors()), err)
	}
}

func TestValidateLowUIDWarns(t *testing.T) {
	dir := validProjectDir(t)

	cfg := validConfig()
	cfg.Identity.UID = 500
	cfg.Identity.GID = 500

	v := NewValidator(dir)
	if err := v.Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v, low IDs should warn not fail", err)
	}
	if len(v.Warnings()) != 2 {
		t.Errorf("Warnings() = %v, want uid and gid warnings", v.Warnings())
	}
}

func TestValidateMissingManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	err := NewValidator(dir).Validate(validConfig())
	if err == nil {
		t.Fatal("Validate() should fail when the manifest file is absent")
	}
	if !strings.Contains(err.Error(), "build.manifest") {
		t.Errorf("error should mention build.manifest, got %v", err)
	}
}

func TestValidateMissingSourceRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewValidator(dir).Validate(validConfig())
	if err == nil {
		t.Fatal("Validate() should fail when the source root is absent")
	}
	if !strings.Contains(err.Error(), "workspace.source_root") {
		t.Errorf("error should mention workspace.source_root, got %v", err)
	}
}

func TestValidateRelativeWorkspacePath(t *testing.T) {
	dir := validProjectDir(t)

	cfg := validConfig()
	cfg.Workspace.Path = "home/app"

	if err := NewValidator(dir).Validate(cfg); err == nil {
		t.Error("Validate() should reject a relative workspace path")
	}
}

func TestValidateBadEnvName(t *testing.T) {
	dir := validProjectDir(t)

	cfg := validConfig()
	cfg.Service.Env = map[string]string{"1BAD": "x"}

	if err := NewValidator(dir).Validate(cfg); err == nil {
		t.Error("Validate() should reject invalid env var names")
	}
}

func TestValidateProjectName(t *testing.T) {
	dir := validProjectDir(t)

	for _, name := range []string{"", "Seq2Seq", "2fast", "has space"} {
		cfg := validConfig()
		cfg.Project = name
		if err := NewValidator(dir).Validate(cfg); err == nil {
			t.Errorf("Validate() should reject project name %q", name)
		}
	}
}
