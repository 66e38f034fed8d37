// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"esmload-cli/internal/issue"
)

// ServiceError pairs a pipeline error with what the CLI should show for
// it: an optional pre-styled message and an optional issue catalog entry
// with remediation help. Only renderServiceError consumes it; the wrapped
// error keeps flowing through errors.Is/As untouched.
//
// Construct through newServiceError so a nil Err cannot slip in.
type ServiceError struct {
	// Err is the underlying error (never nil).
	Err error
	// IssueID selects the catalog entry to render, 0 for none.
	IssueID issue.Id
	// StyledMessage is printed verbatim before the catalog help.
	StyledMessage string
}

func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("newServiceError: nil error")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

func (e *ServiceError) Error() string { return e.Err.Error() }

func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError writes the styled message and the issue catalog help
// to stderr. A catalog entry that fails to render is logged and skipped;
// the plain error text still reaches the user through the normal path.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	entry := issue.Get(svcErr.IssueID)
	if entry == nil {
		return
	}

	rendered, err := entry.Render("dark")
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", err)
		return
	}
	fmt.Fprint(stderr, rendered)
}
