// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidExitCode is the sentinel wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

// ExitCode is the process exit status the CLI hands to os.Exit. POSIX
// truncates anything outside 0..255, so values outside that range fail
// validation instead of being silently wrapped.
type ExitCode int

// InvalidExitCodeError reports an exit code outside 0..255.
type InvalidExitCodeError struct {
	Value ExitCode
}

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// Validate accepts 0..255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether the code signals a successful run.
func (c ExitCode) IsSuccess() bool { return c == 0 }

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d: want 0..255", e.Value)
}

func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }
