// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions
// that accept and return types.FilesystemPath, plus the conversions
// between filesystem paths and file:// URLs that the loading pipeline and
// the origin server share.
package fspath

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"esmload-cli/pkg/types"
)

// ErrNotFileURL is returned when a URL with a scheme other than file is
// converted to a filesystem path.
var ErrNotFileURL = errors.New("not a file URL")

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments. Use this when joining a validated path with literal constants
// or request-derived file names.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// FromSlash wraps filepath.FromSlash for FilesystemPath. Converts forward
// slashes to the OS-specific path separator.
func FromSlash(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.FromSlash(string(p)))
}

// FromFileURL converts a parsed file:// URL to the OS path it addresses.
// The URL host must be empty or "localhost". On Windows a leading slash
// before a drive letter is stripped, so file:///C:/mods/a.ts maps to
// C:\mods\a.ts.
func FromFileURL(u *url.URL) (types.FilesystemPath, error) {
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: scheme %q", ErrNotFileURL, u.Scheme)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("file URL host %q is not supported", u.Host)
	}
	p := u.Path
	if p == "" {
		return "", fmt.Errorf("file URL %q has no path", u)
	}
	if runtime.GOOS == "windows" {
		p = strings.TrimPrefix(p, "/")
		p = filepath.FromSlash(p)
	}
	return types.FilesystemPath(p), nil
}

// ToFileURL converts a filesystem path to its file:// URL text. Relative
// paths are made absolute against the working directory first.
func ToFileURL(p types.FilesystemPath) (string, error) {
	abs, err := Abs(p)
	if err != nil {
		return "", err
	}
	slashed := filepath.ToSlash(string(abs))
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String(), nil
}

// ToDirURL converts a directory path to its file:// URL text with a
// trailing slash, so that relative specifiers resolved against it land
// inside the directory.
func ToDirURL(p types.FilesystemPath) (string, error) {
	s, err := ToFileURL(p)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s, nil
}
