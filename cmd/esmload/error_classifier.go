// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"esmload-cli/internal/config"
	"esmload-cli/internal/issue"
	"esmload-cli/internal/modserver"
	"esmload-cli/pkg/loader"
	"esmload-cli/pkg/specifier"
	"esmload-cli/pkg/transpile"
)

// classifyLoadError maps pipeline failures to issue catalog IDs and returns
// a styled message for CLI rendering. Every stage of the pipeline has its
// own sentinel, so classification is a chain of errors.Is checks.
func classifyLoadError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	switch {
	case errors.Is(err, specifier.ErrInvalidSpecifier),
		errors.Is(err, specifier.ErrImportPrefixMissing),
		errors.Is(err, specifier.ErrInvalidReferrer):
		issueID = issue.ResolutionFailedId
	case errors.Is(err, loader.ErrUnsupportedScheme):
		issueID = issue.UnsupportedSchemeId
	case errors.Is(err, loader.ErrUnknownMediaType):
		issueID = issue.UnknownMediaTypeId
	case errors.Is(err, loader.ErrMissingJSONAttribute):
		issueID = issue.MissingJsonAttributeId
	case errors.Is(err, transpile.ErrTranspileFailed):
		issueID = issue.TranspileFailedId
	case errors.Is(err, config.ErrInvalidConfig):
		issueID = issue.ConfigLoadFailedId
	case isFetchFailure(err):
		issueID = issue.FetchFailedId
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// classifyServeError maps module server failures to issue catalog IDs.
func classifyServeError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	issueID = issue.ServerStartFailedId
	if errors.Is(err, modserver.ErrRootInvalid) {
		issueID = issue.ServeRootMissingId
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// isFetchFailure detects the fetch stage by error shape: FetchError wraps
// all origin failures, including the decode sentinels.
func isFetchFailure(err error) bool {
	var fe *loader.FetchError
	if errors.As(err, &fe) {
		return true
	}
	return errors.Is(err, loader.ErrFetchFailed) ||
		errors.Is(err, loader.ErrMissingContentType) ||
		errors.Is(err, loader.ErrSourceNotUTF8) ||
		errors.Is(err, loader.ErrSourceTooLarge)
}

// wrapPipelineError turns a pipeline failure into a ServiceError carrying
// issue catalog rendering information, leaving nil errors untouched.
func wrapPipelineError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	issueID, styledMsg := classifyLoadError(err, verbose)
	return newServiceError(err, issueID, styledMsg)
}

// wrapServeError is the module-server counterpart of wrapPipelineError.
func wrapServeError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	issueID, styledMsg := classifyServeError(err, verbose)
	return newServiceError(err, issueID, styledMsg)
}
