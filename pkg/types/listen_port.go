// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidListenPort is the sentinel wrapped by InvalidListenPortError.
var ErrInvalidListenPort = errors.New("invalid listen port")

// ListenPort is the TCP port the origin server binds. Zero asks the OS to
// pick a free port, which is what the tests and the loader integration
// setup rely on; anything else must fit in 1..65535.
type ListenPort int

// InvalidListenPortError reports a port outside the bindable range.
type InvalidListenPortError struct {
	Value ListenPort
}

func (p ListenPort) String() string { return strconv.Itoa(int(p)) }

// Validate accepts 0 (auto-select) and 1..65535.
func (p ListenPort) Validate() error {
	if p < 0 || p > 65535 {
		return &InvalidListenPortError{Value: p}
	}
	return nil
}

func (e *InvalidListenPortError) Error() string {
	return fmt.Sprintf("invalid listen port %d: want 0 for auto-select or 1..65535", e.Value)
}

func (e *InvalidListenPortError) Unwrap() error { return ErrInvalidListenPort }
