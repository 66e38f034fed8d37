// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"esmload-cli/pkg/media"
	"esmload-cli/pkg/specifier"
)

// loadRemote serves the http and https origins with a single GET through
// the injected client. The response must carry a success status and a
// Content-Type header before any of the body is consumed; classification
// and the JSON guard run on the header alone.
func (l *Loader) loadRemote(ctx context.Context, id specifier.Identity, requested RequestedType) (*Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, id.String(), http.NoBody)
	if err != nil {
		return nil, &FetchError{Identity: id, Err: err}
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Identity: id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Identity: id, Status: resp.StatusCode}
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return nil, &FetchError{Identity: id, Err: ErrMissingContentType}
	}

	mt := media.Detect(media.Key{Path: id.Path(), ContentType: contentType})
	mtype, needsTranspile, err := plan(id, mt, contentType)
	if err != nil {
		return nil, err
	}
	if mtype == ModuleJSON && requested != RequestedJSON {
		return nil, &JSONAttributeError{Identity: id}
	}

	source, err := l.readBody(resp.Body)
	if err != nil {
		return nil, &FetchError{Identity: id, Err: err}
	}
	return l.finish(id, mt, mtype, needsTranspile, source)
}

// readBody drains a response body under the configured cap and validates
// it as UTF-8 text.
func (l *Loader) readBody(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxSourceBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > l.maxSourceBytes {
		return "", fmt.Errorf("%w (limit %d bytes)", ErrSourceTooLarge, l.maxSourceBytes)
	}
	if !utf8.Valid(data) {
		return "", ErrSourceNotUTF8
	}
	return string(data), nil
}
