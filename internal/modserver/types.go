// SPDX-License-Identifier: MPL-2.0

package modserver

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrRootInvalid is the sentinel for serve-root validation failures. Wrapped
// by RootError; match with errors.Is.
var ErrRootInvalid = errors.New("serve root invalid")

type (
	// Config holds immutable configuration for the module server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1)
		Host string
		// Port is the port to listen on (0 = auto-select)
		Port int
		// Root is the directory the server exposes as a module origin.
		Root string
		// ShutdownTimeout is the timeout for graceful shutdown (default: 10s)
		ShutdownTimeout time.Duration
		// StartupTimeout is the max time to wait for the server to be ready (default: 5s)
		StartupTimeout time.Duration
	}

	// RootError reports a serve root that does not exist or is not a
	// directory. It wraps ErrRootInvalid for errors.Is() compatibility.
	RootError struct {
		Root  string
		Cause error
	}
)

// Error implements the error interface.
func (e *RootError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("serve root %q: %v", e.Root, e.Cause)
	}
	return fmt.Sprintf("serve root %q is not a directory", e.Root)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *RootError) Unwrap() error {
	return ErrRootInvalid
}

// DefaultConfig returns a default configuration serving the current directory.
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            0,
		Root:            ".",
		ShutdownTimeout: 10 * time.Second,
		StartupTimeout:  5 * time.Second,
	}
}

// Validate checks that the configuration can produce a working server.
// The root must exist and be a directory; the port must be in range.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range [0, 65535]", c.Port)
	}

	info, err := os.Stat(c.Root)
	if err != nil {
		return &RootError{Root: c.Root, Cause: err}
	}
	if !info.IsDir() {
		return &RootError{Root: c.Root}
	}

	return nil
}
