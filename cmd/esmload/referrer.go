// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"strings"

	"esmload-cli/pkg/fspath"
	"esmload-cli/pkg/types"
)

// normalizeReferrer turns the --referrer flag value into an absolute URL.
// URLs pass through untouched; anything else is treated as a filesystem
// path. Directories become trailing-slash file URLs so relative specifiers
// resolve inside them, files become plain file URLs.
func normalizeReferrer(ref string) (string, error) {
	if ref == "" || strings.Contains(ref, "://") {
		return ref, nil
	}

	p := fspath.FromSlash(types.FilesystemPath(ref))
	if info, err := os.Stat(p.String()); err == nil && info.IsDir() {
		return fspath.ToDirURL(p)
	}
	return fspath.ToFileURL(p)
}
