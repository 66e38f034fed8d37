// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"
	"path"

	"esmload-cli/pkg/specifier"
)

var (
	// ErrUnsupportedScheme is the sentinel error wrapped by
	// UnsupportedSchemeError.
	ErrUnsupportedScheme = errors.New("unsupported module scheme")

	// ErrFetchFailed is the sentinel error wrapped by FetchError when no
	// more specific cause exists.
	ErrFetchFailed = errors.New("module fetch failed")

	// ErrMissingContentType marks network responses without a Content-Type
	// header. The pipeline never guesses a media type for them.
	ErrMissingContentType = errors.New("no content-type header")

	// ErrSourceNotUTF8 marks module sources that are not valid UTF-8 text.
	ErrSourceNotUTF8 = errors.New("module source is not valid UTF-8")

	// ErrSourceTooLarge marks remote bodies exceeding the loader's size
	// cap. Oversized sources fail instead of being truncated.
	ErrSourceTooLarge = errors.New("module source exceeds size limit")

	// ErrUnknownMediaType is the sentinel error wrapped by
	// UnknownMediaError.
	ErrUnknownMediaType = errors.New("unknown media type")

	// ErrMissingJSONAttribute is the sentinel error wrapped by
	// JSONAttributeError.
	ErrMissingJSONAttribute = errors.New(`missing "type": "json" import attribute`)
)

type (
	// UnsupportedSchemeError is returned when a module identity carries a
	// scheme no origin handles.
	UnsupportedSchemeError struct {
		Identity specifier.Identity
	}

	// FetchError is returned when module bytes cannot be obtained from
	// their origin: filesystem read failures, transport errors, non-success
	// HTTP statuses, responses without a content-type, and source decoding
	// failures.
	FetchError struct {
		Identity specifier.Identity
		// Status is the HTTP status code for non-success responses, zero
		// otherwise.
		Status int
		// Err is the underlying cause when Status is zero.
		Err error
	}

	// UnknownMediaError is returned when classification yields no media
	// type. ContentType is set when a response header drove the decision.
	UnknownMediaError struct {
		Identity    specifier.Identity
		ContentType string
	}

	// JSONAttributeError is returned when JSON content is imported without
	// the JSON import attribute.
	JSONAttributeError struct {
		Identity specifier.Identity
	}
)

// Error implements the error interface for UnsupportedSchemeError.
func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unsupported module specifier: %s (supported schemes: file, http, https)", e.Identity)
}

// Unwrap returns ErrUnsupportedScheme for errors.Is() compatibility.
func (e *UnsupportedSchemeError) Unwrap() error { return ErrUnsupportedScheme }

// Error implements the error interface for FetchError.
func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("failed to fetch module %s: unexpected status %d", e.Identity, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("failed to fetch module %s: %v", e.Identity, e.Err)
	default:
		return fmt.Sprintf("failed to fetch module %s", e.Identity)
	}
}

// Unwrap returns the underlying cause, or ErrFetchFailed when the failure
// is a bare HTTP status. Detect the class with errors.As.
func (e *FetchError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrFetchFailed
}

// Error implements the error interface for UnknownMediaError.
func (e *UnknownMediaError) Error() string {
	if e.ContentType != "" {
		return fmt.Sprintf("unknown content-type %q for module %s", e.ContentType, e.Identity)
	}
	if ext := path.Ext(e.Identity.Path()); ext != "" {
		return fmt.Sprintf("unknown extension %q for module %s", ext, e.Identity)
	}
	return fmt.Sprintf("cannot determine media type of module %s (no extension)", e.Identity)
}

// Unwrap returns ErrUnknownMediaType for errors.Is() compatibility.
func (e *UnknownMediaError) Unwrap() error { return ErrUnknownMediaType }

// Error implements the error interface for JSONAttributeError.
func (e *JSONAttributeError) Error() string {
	return fmt.Sprintf(`attempted to load JSON module %s without specifying "type": "json" attribute in the import statement`, e.Identity)
}

// Unwrap returns ErrMissingJSONAttribute for errors.Is() compatibility.
func (e *JSONAttributeError) Unwrap() error { return ErrMissingJSONAttribute }
