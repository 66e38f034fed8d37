// SPDX-License-Identifier: MPL-2.0

// Package specifier resolves import specifiers to absolute module
// identities. Resolution is pure URI algebra: no filesystem access, no
// network access, and no check that the resolved module exists. Scheme
// support is decided later, at load time, so an identity may carry any
// scheme.
package specifier

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"esmload-cli/pkg/fspath"
	"esmload-cli/pkg/types"
)

var (
	// ErrInvalidSpecifier is the sentinel error for specifiers that do not
	// parse as a URI reference at all.
	ErrInvalidSpecifier = errors.New("invalid module specifier")

	// ErrImportPrefixMissing is the sentinel error for bare specifiers.
	// A relative import must be prefixed with / or ./ or ../ so that it can
	// be joined against its referrer.
	ErrImportPrefixMissing = errors.New("relative import path must be prefixed with / or ./ or ../")

	// ErrInvalidReferrer is the sentinel error for referrers that are not
	// absolute, base-capable URLs.
	ErrInvalidReferrer = errors.New("referrer is not an absolute base URL")
)

type (
	// Identity is the absolute, normalized address of a module. Two
	// identities are the same module exactly when their string forms are
	// equal. The zero value ("") is not a valid identity; values produced
	// by Parse and Resolve are always absolute and normalized.
	Identity string

	// ResolutionError is returned when a specifier cannot be resolved to an
	// absolute identity. It unwraps to one of the package sentinel errors.
	ResolutionError struct {
		// Specifier is the import text as written.
		Specifier string
		// Referrer is the module the import appeared in, when one was given.
		Referrer string
		// Err is the underlying cause.
		Err error
	}
)

// Error implements the error interface for ResolutionError.
func (e *ResolutionError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("cannot resolve %q from %q: %v", e.Specifier, e.Referrer, e.Err)
	}
	return fmt.Sprintf("cannot resolve %q: %v", e.Specifier, e.Err)
}

// Unwrap returns the underlying cause for errors.Is() compatibility.
func (e *ResolutionError) Unwrap() error { return e.Err }

// Parse returns the Identity for an already-absolute URL string.
func Parse(raw string) (Identity, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", &ResolutionError{Specifier: raw, Err: fmt.Errorf("%w: %v", ErrInvalidSpecifier, err)}
	}
	if !u.IsAbs() {
		return "", &ResolutionError{Specifier: raw, Err: fmt.Errorf("%w: missing scheme", ErrInvalidSpecifier)}
	}
	normalize(u)
	return Identity(u.String()), nil
}

// Resolve turns the specifier text of an import statement into an absolute
// module identity.
//
// An already-absolute specifier resolves to itself, normalized; the
// referrer is ignored. A specifier prefixed with / or ./ or ../ is joined
// against the referrer with standard URI-reference semantics: dot segments
// collapse, and the referrer's query and fragment never leak into the
// result. Anything else is a bare specifier and fails with
// ErrImportPrefixMissing; this resolver has no registry or import map to
// consult.
func Resolve(specifier, referrer string) (Identity, error) {
	ref, err := url.Parse(specifier)
	if err != nil {
		return "", &ResolutionError{Specifier: specifier, Referrer: referrer, Err: fmt.Errorf("%w: %v", ErrInvalidSpecifier, err)}
	}
	if ref.IsAbs() {
		normalize(ref)
		return Identity(ref.String()), nil
	}

	if !hasImportPrefix(specifier) {
		return "", &ResolutionError{Specifier: specifier, Referrer: referrer, Err: ErrImportPrefixMissing}
	}

	base, err := url.Parse(referrer)
	if err != nil {
		return "", &ResolutionError{Specifier: specifier, Referrer: referrer, Err: fmt.Errorf("%w: %v", ErrInvalidReferrer, err)}
	}
	if !base.IsAbs() {
		return "", &ResolutionError{Specifier: specifier, Referrer: referrer, Err: fmt.Errorf("%w: missing scheme", ErrInvalidReferrer)}
	}
	if base.Opaque != "" {
		return "", &ResolutionError{Specifier: specifier, Referrer: referrer, Err: fmt.Errorf("%w: opaque URL cannot be a base", ErrInvalidReferrer)}
	}

	resolved := base.ResolveReference(ref)
	normalize(resolved)
	return Identity(resolved.String()), nil
}

// String returns the normalized URL text of the Identity.
func (i Identity) String() string { return string(i) }

// Validate returns an error if the Identity is not an absolute URL.
func (i Identity) Validate() error {
	_, err := Parse(string(i))
	return err
}

// URL returns the parsed form of the Identity.
func (i Identity) URL() (*url.URL, error) {
	u, err := url.Parse(string(i))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpecifier, err)
	}
	return u, nil
}

// Scheme returns the lowercased URL scheme, or "" if the Identity does not
// parse.
func (i Identity) Scheme() string {
	u, err := url.Parse(string(i))
	if err != nil {
		return ""
	}
	return u.Scheme
}

// Path returns the URL path component, or "" if the Identity does not
// parse. For file identities this is the slash-separated URL path, not an
// OS path.
func (i Identity) Path() string {
	u, err := url.Parse(string(i))
	if err != nil {
		return ""
	}
	return u.Path
}

// FilePath returns the OS path addressed by a file-scheme Identity. Other
// schemes fail with fspath.ErrNotFileURL.
func (i Identity) FilePath() (types.FilesystemPath, error) {
	u, err := i.URL()
	if err != nil {
		return "", err
	}
	return fspath.FromFileURL(u)
}

// hasImportPrefix reports whether the specifier carries one of the three
// prefixes that mark it as joinable against a referrer.
func hasImportPrefix(specifier string) bool {
	return strings.HasPrefix(specifier, "/") ||
		strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../")
}

// normalize canonicalizes the parts of a URL that must not affect identity
// equality: host case and dot segments in hierarchical paths. url.Parse
// already lowercases the scheme.
func normalize(u *url.URL) {
	u.Host = strings.ToLower(u.Host)
	if u.Opaque != "" || u.Path == "" {
		return
	}
	cleaned := path.Clean(u.Path)
	if strings.HasSuffix(u.Path, "/") && cleaned != "/" {
		cleaned += "/"
	}
	if cleaned != u.Path {
		u.Path = cleaned
		u.RawPath = ""
	}
}
