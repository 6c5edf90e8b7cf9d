package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// SeqpackHomeEnv is the environment variable for the seqpack home directory
	SeqpackHomeEnv = "SEQPACK_HOME"
	// DefaultSeqpackDir is the default directory name under user home
	DefaultSeqpackDir = ".seqpack"
	// LogsSubdir is the subdirectory for CLI log files
	LogsSubdir = "logs"
)

// SeqpackHome returns the seqpack home directory.
// It checks SEQPACK_HOME environment variable first, then defaults to ~/.seqpack
func SeqpackHome() (string, error) {
	if home := os.Getenv(SeqpackHomeEnv); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultSeqpackDir), nil
}

// LogsDir returns the CLI logs directory (~/.seqpack/logs)
func LogsDir() (string, error) {
	home, err := SeqpackHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, LogsSubdir), nil
}

// EnsureDir creates a directory and its parents if they do not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
