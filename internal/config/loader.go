package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the default configuration file name
	ConfigFileName = "seqpack.yaml"
	// IgnoreFileName is the default ignore file name
	IgnoreFileName = ".seqpackignore"
)

// Loader handles loading and parsing of seqpack configuration
type Loader struct {
	workDir string
	viper   *viper.Viper
}

// NewLoader creates a new configuration loader for the given working directory
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir: workDir,
		viper:   viper.New(),
	}
}

// Load reads and parses the seqpack.yaml configuration file
func (l *Loader) Load() (*Config, error) {
	configPath := filepath.Join(l.workDir, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &ConfigNotFoundError{Path: configPath}
	}

	l.viper.SetConfigFile(configPath)
	l.viper.SetConfigType("yaml")

	// Set defaults from DefaultConfig
	defaults := DefaultConfig()
	l.viper.SetDefault("version", defaults.Version)
	l.viper.SetDefault("build.image", defaults.Build.Image)
	l.viper.SetDefault("build.manifest", defaults.Build.Manifest)
	l.viper.SetDefault("identity.user", defaults.Identity.User)
	l.viper.SetDefault("identity.uid", defaults.Identity.UID)
	l.viper.SetDefault("identity.gid", defaults.Identity.GID)
	l.viper.SetDefault("workspace.path", defaults.Workspace.Path)
	l.viper.SetDefault("workspace.source_root", defaults.Workspace.SourceRoot)
	l.viper.SetDefault("workspace.path_env", defaults.Workspace.PathEnv)

	if err := l.viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Viper lowercases map keys, but env var names are case-sensitive.
	// Re-read the YAML to restore original casing for service.env.
	if err := l.fixEnvKeyCase(&cfg, configPath); err != nil {
		// Non-fatal: env vars still work, just with lowercased names.
	}

	return &cfg, nil
}

// fixEnvKeyCase re-reads the YAML to preserve original case for env var keys
func (l *Loader) fixEnvKeyCase(cfg *Config, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	var raw struct {
		Service struct {
			Env map[string]string `yaml:"env"`
		} `yaml:"service"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw.Service.Env) > 0 {
		cfg.Service.Env = raw.Service.Env
	}

	return nil
}

// ConfigPath returns the full path to the config file
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.workDir, ConfigFileName)
}

// IgnorePath returns the full path to the ignore file
func (l *Loader) IgnorePath() string {
	return filepath.Join(l.workDir, IgnoreFileName)
}

// Exists checks if the configuration file exists
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.ConfigPath())
	return err == nil
}

// WorkDir returns the loader's working directory.
func (l *Loader) WorkDir() string {
	return l.workDir
}

// ConfigNotFoundError is returned when the config file doesn't exist
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found: %s (run 'seqpack init' to create one)", e.Path)
}

// IsConfigNotFound returns true if the error is a ConfigNotFoundError
func IsConfigNotFound(err error) bool {
	_, ok := err.(*ConfigNotFoundError)
	return ok
}
