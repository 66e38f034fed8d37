// SPDX-License-Identifier: EPL-2.0

package testutil

import (
	"os"
	"testing"
)

// Stopper matches anything with a graceful Stop, such as the module origin
// server.
type Stopper interface {
	Stop() error
}

// MustChdir moves the working directory to dir for the duration of a test
// and hands back the restore function. Config loading consults the working
// directory, so tests that exercise it must pin one.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()

	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}

	return func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory %s: %v", prev, err)
		}
	}
}

// MustSetenv sets key to value and returns a function that puts the
// original value back, unsetting when the variable was absent before.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()

	prev, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s: %v", key, err)
	}

	return func() {
		var err error
		if had {
			err = os.Setenv(key, prev)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("restore env %s: %v", key, err)
		}
	}
}

// MustUnsetenv clears key and returns a function that restores the
// original value when there was one.
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()

	prev, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv %s: %v", key, err)
	}

	return func() {
		if !had {
			return
		}
		if err := os.Setenv(key, prev); err != nil {
			t.Errorf("restore env %s: %v", key, err)
		}
	}
}

// DeferStop returns a cleanup function that stops s. Stop errors during
// teardown are logged rather than failed on: the server may already have
// been stopped by the body of the test.
func DeferStop(t testing.TB, s Stopper) func() {
	t.Helper()
	return func() {
		t.Helper()
		if err := s.Stop(); err != nil {
			t.Logf("stop during cleanup: %v", err)
		}
	}
}
