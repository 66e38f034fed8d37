// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"esmload-cli/pkg/types"
)

func TestLoadOptions_Validate_AllEmpty(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{}
	err := opts.Validate()
	if err != nil {
		t.Errorf("empty LoadOptions should be valid, got error: %v", err)
	}
}

func TestLoadOptions_Validate_AllValid(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: "/tmp/config.cue",
		ConfigDirPath:  "/tmp/config",
	}
	err := opts.Validate()
	if err != nil {
		t.Errorf("LoadOptions with valid paths should be valid, got error: %v", err)
	}
}

func TestLoadOptions_Validate_InvalidConfigFilePath(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: types.FilesystemPath("   "),
	}
	err := opts.Validate()
	if err == nil {
		t.Fatal("LoadOptions with whitespace-only ConfigFilePath should be invalid")
	}
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("error should wrap ErrInvalidLoadOptions, got: %v", err)
	}

	var loadErr *InvalidLoadOptionsError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
	}
	if len(loadErr.FieldErrors) != 1 {
		t.Errorf("expected 1 field error, got %d", len(loadErr.FieldErrors))
	}
}

func TestLoadOptions_Validate_InvalidConfigDirPath(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigDirPath: types.FilesystemPath("\t"),
	}
	err := opts.Validate()
	if err == nil {
		t.Fatal("LoadOptions with whitespace-only ConfigDirPath should be invalid")
	}
}

func TestLoadOptions_Validate_MultipleInvalid(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: types.FilesystemPath("   "),
		ConfigDirPath:  types.FilesystemPath("\t"),
	}
	err := opts.Validate()
	if err == nil {
		t.Fatal("LoadOptions with all invalid paths should be invalid")
	}

	var loadErr *InvalidLoadOptionsError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
	}
	if len(loadErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(loadErr.FieldErrors), loadErr.FieldErrors)
	}
}

func TestLoadOptions_Validate_MixedEmptyAndInvalid(t *testing.T) {
	t.Parallel()
	// Empty fields are valid (zero-value means "use default"),
	// only non-empty invalid fields should be caught.
	opts := LoadOptions{
		ConfigFilePath: "",
		ConfigDirPath:  types.FilesystemPath("   "),
	}
	err := opts.Validate()
	if err == nil {
		t.Fatal("LoadOptions with one invalid field should be invalid")
	}

	var loadErr *InvalidLoadOptionsError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
	}
	if len(loadErr.FieldErrors) != 1 {
		t.Errorf("expected 1 field error (only ConfigDirPath), got %d", len(loadErr.FieldErrors))
	}
}

func TestInvalidLoadOptionsError_Error_Single(t *testing.T) {
	t.Parallel()
	err := &InvalidLoadOptionsError{
		FieldErrors: []error{errors.New("test error")},
	}
	msg := err.Error()
	if msg != "invalid load options: test error" {
		t.Errorf("Error() = %q, want %q", msg, "invalid load options: test error")
	}
}

func TestInvalidLoadOptionsError_Error_Multiple(t *testing.T) {
	t.Parallel()
	err := &InvalidLoadOptionsError{
		FieldErrors: []error{errors.New("err1"), errors.New("err2")},
	}
	msg := err.Error()
	if msg != "invalid load options: 2 field errors" {
		t.Errorf("Error() = %q, want %q", msg, "invalid load options: 2 field errors")
	}
}

func TestInvalidLoadOptionsError_Unwrap(t *testing.T) {
	t.Parallel()
	err := &InvalidLoadOptionsError{
		FieldErrors: []error{errors.New("test")},
	}
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Error("Unwrap() should return ErrInvalidLoadOptions")
	}
}

func TestProvider_Load_UsesExplicitDir(t *testing.T) {
	tmpDir := t.TempDir()
	cfgDir := filepath.Join(tmpDir, AppName)
	writeConfigFile(t, cfgDir, `http: user_agent: "provider-agent"`)

	p := NewProvider()
	cfg, err := p.Load(context.Background(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(cfgDir),
	})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.HTTP.UserAgent != "provider-agent" {
		t.Errorf("UserAgent = %q, want provider-agent", cfg.HTTP.UserAgent)
	}
}

func TestProvider_LoadWithPath_ReportsResolvedFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgDir := filepath.Join(tmpDir, AppName)
	wantPath := writeConfigFile(t, cfgDir, `serve: port: 7777`)

	p := NewProvider()
	cfg, path, err := p.LoadWithPath(context.Background(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(cfgDir),
	})
	if err != nil {
		t.Fatalf("LoadWithPath() returned error: %v", err)
	}

	if cfg.Serve.Port != 7777 {
		t.Errorf("Serve.Port = %d, want 7777", cfg.Serve.Port)
	}
	if path != wantPath {
		t.Errorf("resolved path = %q, want %q", path, wantPath)
	}
}

func TestProvider_Load_RejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	p := NewProvider()
	_, err := p.Load(context.Background(), LoadOptions{
		ConfigFilePath: types.FilesystemPath("   "),
	})
	if err == nil {
		t.Fatal("expected error for whitespace-only ConfigFilePath")
	}
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("error should wrap ErrInvalidLoadOptions, got: %v", err)
	}
}

// writeConfigFile writes content as cfgDir's config.cue and returns its path.
func writeConfigFile(t *testing.T, cfgDir, content string) string {
	t.Helper()
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}
