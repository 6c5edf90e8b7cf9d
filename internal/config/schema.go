package config

// Config represents the root configuration structure for seqpack.yaml
type Config struct {
	Version   string          `yaml:"version" mapstructure:"version"`
	Project   string          `yaml:"project" mapstructure:"project"`
	Build     BuildConfig     `yaml:"build" mapstructure:"build"`
	Identity  IdentityConfig  `yaml:"identity" mapstructure:"identity"`
	Workspace WorkspaceConfig `yaml:"workspace" mapstructure:"workspace"`
	Service   ServiceConfig   `yaml:"service" mapstructure:"service"`
	Logging   LoggingConfig   `yaml:"logging,omitempty" mapstructure:"logging"`
}

// BuildConfig defines the image build configuration
type BuildConfig struct {
	// Image is the pinned interpreter base image, e.g. "python:3.10-slim-bookworm".
	// Floating tags like "python:latest" are rejected by the validator.
	Image string `yaml:"image" mapstructure:"image"`

	// Manifest is the dependency manifest path, relative to the build context.
	Manifest string `yaml:"manifest" mapstructure:"manifest"`

	// Packages are extra system packages installed alongside the manifest.
	Packages []string `yaml:"packages,omitempty" mapstructure:"packages"`

	// Context is the build context directory. Empty means the project root.
	Context string `yaml:"context,omitempty" mapstructure:"context"`

	// Labels are user-defined labels applied to the built image.
	Labels map[string]string `yaml:"labels,omitempty" mapstructure:"labels"`
}

// IdentityConfig defines the non-privileged runtime identity baked into
// the image. The numeric IDs are stable across rebuilds so that volume
// permissions survive image replacement.
type IdentityConfig struct {
	User string `yaml:"user" mapstructure:"user"`
	UID  int    `yaml:"uid" mapstructure:"uid"`
	GID  int    `yaml:"gid" mapstructure:"gid"`
}

// WorkspaceConfig defines the in-image workspace layout
type WorkspaceConfig struct {
	// Path is the absolute working directory inside the image.
	Path string `yaml:"path" mapstructure:"path"`

	// SourceRoot is the importable source root, relative to Path.
	SourceRoot string `yaml:"source_root" mapstructure:"source_root"`

	// PathEnv is the environment variable the runtime's module resolver
	// consults. Defaults to PYTHONPATH.
	PathEnv string `yaml:"path_env,omitempty" mapstructure:"path_env"`
}

// ServiceConfig defines how the materialized service starts
type ServiceConfig struct {
	// Entrypoint is the command line the image entrypoint runs, parsed
	// with shell-style quoting into exec form.
	Entrypoint string `yaml:"entrypoint,omitempty" mapstructure:"entrypoint"`

	// Env holds extra environment variables baked into the image.
	Env map[string]string `yaml:"env,omitempty" mapstructure:"env"`
}

// LoggingConfig defines file logging behavior for the seqpack CLI itself
type LoggingConfig struct {
	FileEnabled *bool `yaml:"file_enabled,omitempty" mapstructure:"file_enabled"`
	MaxSizeMB   int   `yaml:"max_size_mb,omitempty" mapstructure:"max_size_mb"`
	MaxAgeDays  int   `yaml:"max_age_days,omitempty" mapstructure:"max_age_days"`
	MaxBackups  int   `yaml:"max_backups,omitempty" mapstructure:"max_backups"`
}

// IsFileEnabled returns whether CLI file logging is enabled.
// Defaults to true if not explicitly set.
func (c *LoggingConfig) IsFileEnabled() bool {
	if c.FileEnabled == nil {
		return true
	}
	return *c.FileEnabled
}

// SourceRootPath returns the absolute in-image path of the importable
// source root, i.e. the value the PathEnv variable is set to.
func (w WorkspaceConfig) SourceRootPath() string {
	if w.SourceRoot == "" || w.SourceRoot == "." {
		return w.Path
	}
	return w.Path + "/" + w.SourceRoot
}
