// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"esmload-cli/pkg/types"
)

// Package-level cached configuration state. The CLI loads configuration once
// and reads it from many commands; tests mutate and Reset() this state directly.
var (
	globalConfig *Config
	configPath   string
	errLastLoad  error

	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// configFilePathOverride forces loading from a specific file (--config flag).
	configFilePathOverride string
)

// Get returns the loaded configuration, loading it on first use.
// If loading fails, Get returns the default configuration and records the
// error for later retrieval via LastLoadError().
func Get() *Config {
	if globalConfig != nil {
		return globalConfig
	}

	cfg, err := Load()
	if err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Load loads the configuration, caching the result for subsequent calls.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(configFilePathOverride)})
	if err != nil {
		errLastLoad = err
		return nil, err
	}

	globalConfig = cfg
	configPath = path
	errLastLoad = nil

	return cfg, nil
}

// LastLoadError returns the error from the most recent failed load, or nil
// when the last load succeeded.
func LastLoadError() error { return errLastLoad }

// ConfigFilePath returns the path of the config file in use, or an empty
// string when the configuration came entirely from defaults.
func ConfigFilePath() string { return configPath }

// SetConfigFilePathOverride forces subsequent loads to use the given file.
// It clears any cached configuration so the override takes effect immediately.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
	ResetCache()
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// ResetCache clears the cached configuration while preserving overrides.
// The next Load() or Get() re-reads from disk.
func ResetCache() {
	globalConfig = nil
	configPath = ""
	errLastLoad = nil
}

// Reset clears all overrides and cached state. Call from test cleanup to
// restore defaults.
func Reset() {
	ResetCache()
	configDirOverride = ""
	configFilePathOverride = ""
}
