package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/distribution/reference"

	"github.com/seqpack/seqpack/internal/logger"
)

// projectNameRe matches valid project names: lowercase alphanumerics,
// dashes, and underscores, starting with a letter.
var projectNameRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// envNameRe matches valid environment variable names.
var envNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validator validates a Config for correctness
type Validator struct {
	workDir  string
	errors   []error
	warnings []string
}

// NewValidator creates a new validator for the given working directory
func NewValidator(workDir string) *Validator {
	return &Validator{
		workDir:  workDir,
		errors:   []error{},
		warnings: []string{},
	}
}

// Validate checks the configuration for errors and returns all found issues
func (v *Validator) Validate(cfg *Config) error {
	v.errors = []error{}
	v.warnings = []string{}

	v.validateVersion(cfg)
	v.validateProject(cfg)
	v.validateBuild(cfg)
	v.validateIdentity(cfg)
	v.validateWorkspace(cfg)
	v.validateService(cfg)

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

func (v *Validator) addError(field, message string, value interface{}) {
	v.errors = append(v.errors, &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	})
}

func (v *Validator) addWarning(field, message string) {
	v.warnings = append(v.warnings, fmt.Sprintf("%s: %s", field, message))
	logger.Warn().
		Str("field", field).
		Msg(message)
}

// Warnings returns the list of validation warnings
func (v *Validator) Warnings() []string {
	return v.warnings
}

func (v *Validator) validateVersion(cfg *Config) {
	if cfg.Version == "" {
		v.addError("version", "is required", nil)
		return
	}
	if cfg.Version != "1" {
		v.addError("version", "must be '1' (only supported version)", cfg.Version)
	}
}

func (v *Validator) validateProject(cfg *Config) {
	if cfg.Project == "" {
		v.addError("project", "is required", nil)
		return
	}
	if !projectNameRe.MatchString(cfg.Project) {
		v.addError("project", "must start with a letter and contain only lowercase letters, digits, '-' and '_'", cfg.Project)
	}
}

func (v *Validator) validateBuild(cfg *Config) {
	if cfg.Build.Image == "" {
		v.addError("build.image", "is required", nil)
	} else if isFloatingTag(cfg.Build.Image) {
		// Reproducibility depends on a pinned base: the same manifest and
		// base tag must always produce the same dependency layer.
		v.addError("build.image", "must be pinned to a version tag, not 'latest'", cfg.Build.Image)
	}

	if cfg.Build.Manifest == "" {
		v.addError("build.manifest", "is required", nil)
	} else {
		if filepath.IsAbs(cfg.Build.Manifest) {
			v.addError("build.manifest", "must be relative to the build context", cfg.Build.Manifest)
		} else if _, err := os.Stat(filepath.Join(v.contextDir(cfg), cfg.Build.Manifest)); os.IsNotExist(err) {
			v.addError("build.manifest", "file does not exist in build context", cfg.Build.Manifest)
		}
	}

	if cfg.Build.Context != "" {
		contextPath := cfg.Build.Context
		if !filepath.IsAbs(contextPath) {
			contextPath = filepath.Join(v.workDir, contextPath)
		}
		info, err := os.Stat(contextPath)
		if os.IsNotExist(err) {
			v.addError("build.context", "directory does not exist", cfg.Build.Context)
		} else if err == nil && !info.IsDir() {
			v.addError("build.context", "must be a directory", cfg.Build.Context)
		}
	}
}

func (v *Validator) validateIdentity(cfg *Config) {
	if cfg.Identity.User == "" {
		v.addError("identity.user", "is required", nil)
	} else if cfg.Identity.User == "root" {
		v.addError("identity.user", "must not be root", cfg.Identity.User)
	}

	if cfg.Identity.UID <= 0 {
		v.addError("identity.uid", "must be a positive integer (0 is root)", cfg.Identity.UID)
	} else if cfg.Identity.UID < 1000 {
		v.addWarning("identity.uid", "values below 1000 may collide with system accounts in the base image")
	}

	if cfg.Identity.GID <= 0 {
		v.addError("identity.gid", "must be a positive integer (0 is root)", cfg.Identity.GID)
	} else if cfg.Identity.GID < 1000 {
		v.addWarning("identity.gid", "values below 1000 may collide with system groups in the base image")
	}
}

func (v *Validator) validateWorkspace(cfg *Config) {
	if cfg.Workspace.Path == "" {
		v.addError("workspace.path", "is required", nil)
	} else if !strings.HasPrefix(cfg.Workspace.Path, "/") {
		v.addError("workspace.path", "must be an absolute path", cfg.Workspace.Path)
	}

	// The source root must exist in the build context: the runtime resolves
	// imports against workspace.path/source_root, and a divergence here only
	// surfaces when the service fails to import its own code at startup.
	if cfg.Workspace.SourceRoot != "" && cfg.Workspace.SourceRoot != "." {
		if filepath.IsAbs(cfg.Workspace.SourceRoot) {
			v.addError("workspace.source_root", "must be relative to the workspace path", cfg.Workspace.SourceRoot)
		} else {
			srcPath := filepath.Join(v.contextDir(cfg), cfg.Workspace.SourceRoot)
			info, err := os.Stat(srcPath)
			if os.IsNotExist(err) {
				v.addError("workspace.source_root", "directory does not exist in build context", cfg.Workspace.SourceRoot)
			} else if err == nil && !info.IsDir() {
				v.addError("workspace.source_root", "must be a directory", cfg.Workspace.SourceRoot)
			}
		}
	}

	if cfg.Workspace.PathEnv != "" && !envNameRe.MatchString(cfg.Workspace.PathEnv) {
		v.addError("workspace.path_env", "is not a valid environment variable name", cfg.Workspace.PathEnv)
	}
}

func (v *Validator) validateService(cfg *Config) {
	for name := range cfg.Service.Env {
		if !envNameRe.MatchString(name) {
			v.addError("service.env", "invalid environment variable name", name)
		}
	}
}

// contextDir resolves the effective build context directory.
func (v *Validator) contextDir(cfg *Config) string {
	if cfg.Build.Context == "" {
		return v.workDir
	}
	if filepath.IsAbs(cfg.Build.Context) {
		return cfg.Build.Context
	}
	return filepath.Join(v.workDir, cfg.Build.Context)
}

// isFloatingTag reports whether an image reference uses a floating tag.
// A naive split on ":" would trip over registry ports, so the reference
// is parsed properly. Unparseable references count as floating.
func isFloatingTag(ref string) bool {
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return true
	}
	if _, ok := named.(reference.Digested); ok {
		return false
	}
	tagged, ok := named.(reference.Tagged)
	if !ok {
		return true // no tag at all implies :latest
	}
	return tagged.Tag() == "latest"
}

// ValidationError describes a single invalid configuration field
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiValidationError holds multiple validation errors
type MultiValidationError struct {
	Errors []error
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d configuration errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidationErrors returns the individual errors
func (e *MultiValidationError) ValidationErrors() []error {
	return e.Errors
}
