// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"esmload-cli/pkg/types"
)

// ExitError carries the process exit code from a RunE handler out to
// Execute, which owns the single os.Exit call. Handlers return it instead
// of exiting so deferred cleanup and cobra's own teardown still run.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %s", e.Code)
	}
	return e.Err.Error()
}

// Unwrap keeps the wrapped pipeline error visible to errors.Is/As.
func (e *ExitError) Unwrap() error {
	return e.Err
}
