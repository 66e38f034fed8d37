// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"os"
	"unicode/utf8"

	"esmload-cli/pkg/media"
	"esmload-cli/pkg/specifier"
)

// loadFile serves the filesystem origin. Classification and the JSON
// guard run before the file is opened, so an unknown extension or a
// missing attribute fails without touching the disk. Read failures keep
// their cause reachable through errors.Is (e.g. fs.ErrNotExist).
func (l *Loader) loadFile(ctx context.Context, id specifier.Identity, requested RequestedType) (*Record, error) {
	p, err := id.FilePath()
	if err != nil {
		return nil, &FetchError{Identity: id, Err: err}
	}

	mt := media.Detect(media.Key{Path: id.Path()})
	mtype, needsTranspile, err := plan(id, mt, "")
	if err != nil {
		return nil, err
	}
	if mtype == ModuleJSON && requested != RequestedJSON {
		return nil, &JSONAttributeError{Identity: id}
	}

	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Identity: id, Err: err}
	}
	data, err := os.ReadFile(p.String())
	if err != nil {
		return nil, &FetchError{Identity: id, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &FetchError{Identity: id, Err: ErrSourceNotUTF8}
	}
	return l.finish(id, mt, mtype, needsTranspile, string(data))
}
