package config

// LabelDomain is the reverse-DNS prefix for all seqpack-managed labels.
const LabelDomain = "dev.seqpack"

// Default identity values. The numeric IDs sit above the distribution
// system-account range so they never collide with IDs the base image
// already allocates.
const (
	DefaultUsername = "seq2seq"
	DefaultUID      = 1001
	DefaultGID      = 1001
)

// DefaultPathEnv is the module-resolver variable for Python runtimes.
const DefaultPathEnv = "PYTHONPATH"

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Build: BuildConfig{
			Image:    "python:3.10-slim-bookworm",
			Manifest: "requirements.txt",
		},
		Identity: IdentityConfig{
			User: DefaultUsername,
			UID:  DefaultUID,
			GID:  DefaultGID,
		},
		Workspace: WorkspaceConfig{
			Path:       "/home/seq2seq/app",
			SourceRoot: "src",
			PathEnv:    DefaultPathEnv,
		},
		Service: ServiceConfig{
			Env: map[string]string{},
		},
	}
}

// DefaultConfigYAML returns the default configuration as YAML for scaffolding
const DefaultConfigYAML = `# Seqpack Configuration
# Documentation: https://github.com/seqpack/seqpack

version: "1"
project: "%s"

build:
  # Pinned interpreter base image. Floating tags ("latest") are rejected.
  image: "python:3.10-slim-bookworm"
  # Dependency manifest, relative to the build context
  manifest: "requirements.txt"
  # Extra system packages (apt-get on Debian, apk on Alpine)
  packages: []

identity:
  # Non-privileged runtime user baked into the image.
  # Keep the numeric IDs stable across rebuilds for volume permissions.
  user: "seq2seq"
  uid: 1001
  gid: 1001

workspace:
  # Working directory inside the image
  path: "/home/seq2seq/app"
  # Importable source root, relative to the workspace path
  source_root: "src"

service:
  # Command the image entrypoint runs (shell-style quoting)
  # entrypoint: "python -m src.main"
  env:
    # MODEL_DEVICE: "cuda"
`

// DefaultIgnoreFile returns the default .seqpackignore content
const DefaultIgnoreFile = `# Seqpack Ignore File
# Files matching these patterns are excluded from the build context.
# Syntax follows .gitignore conventions.

# Python artifacts
__pycache__/
*.pyc
.venv/
venv/
*.egg-info/

# Model artifacts and data
*.ckpt
*.onnx
data/
checkpoints/

# Tooling
.git/
.mypy_cache/
.pytest_cache/
`
