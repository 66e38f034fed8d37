// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue/errors"
)

// DefaultMaxFileSize caps CUE input files at 5MB. Configuration files are
// tiny; anything near this size is a mistake, not a config.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// FormatError rewrites a CUE evaluation error into one line (or a short
// list) of "<file>: <json-path>: <message>" text, e.g.
//
//	config.cue: http.timeout_seconds: expected int, got string
//	config.cue: ui.color_scheme: invalid color scheme
//
// Non-CUE errors are wrapped with the file path and passed through.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path inside the message; strip it so
		// the line reads "path: message" exactly once.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		if pathStr == "" {
			lines = append(lines, msg)
		} else {
			lines = append(lines, pathStr+": "+msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath renders a CUE error path in JSON-path notation: the flat
// slice ["roots", "0", "path"] becomes "roots[0].path". Purely numeric
// segments after the first element read as list indices.
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndexSegment(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndexSegment(s string) bool {
	_, err := strconv.ParseUint(s, 10, 32)
	return err == nil
}

// CheckFileSize rejects data longer than maxSize before it reaches the
// CUE evaluator. Callers that stream can check against the same limit
// without materializing the file first.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
