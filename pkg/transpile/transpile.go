// SPDX-License-Identifier: MPL-2.0

// Package transpile turns TypeScript-family and JSX sources into plain
// JavaScript. The Engine wraps esbuild's transform API; callers that need
// a different toolchain implement Transpiler themselves.
package transpile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"esmload-cli/pkg/media"
)

// ErrTranspileFailed is the sentinel error wrapped by Error.
var ErrTranspileFailed = errors.New("transpile failed")

type (
	// Source is one module source handed to a Transpiler. Specifier is the
	// module identity, used in diagnostics only.
	Source struct {
		Specifier string
		Media     media.Type
		Text      string
	}

	// Transpiler converts a single source to plain JavaScript. Transpilers
	// must be safe for concurrent use.
	Transpiler interface {
		Transpile(src Source) (string, error)
	}

	// Engine is the esbuild-backed Transpiler. The zero value is not
	// usable; construct with New.
	Engine struct {
		jsxFactory  string
		jsxFragment string
		target      api.Target
	}

	// Option configures an Engine.
	Option func(*Engine)

	// Error is returned when a source cannot be transpiled. It carries the
	// offending specifier and the formatted diagnostics.
	Error struct {
		Specifier   string
		Diagnostics []string
	}
)

// Error implements the error interface for Error.
func (e *Error) Error() string {
	switch len(e.Diagnostics) {
	case 0:
		return fmt.Sprintf("transpiling %s failed", e.Specifier)
	case 1:
		return fmt.Sprintf("transpiling %s: %s", e.Specifier, firstLine(e.Diagnostics[0]))
	default:
		return fmt.Sprintf("transpiling %s: %s (and %d more errors)",
			e.Specifier, firstLine(e.Diagnostics[0]), len(e.Diagnostics)-1)
	}
}

// Unwrap returns ErrTranspileFailed for errors.Is() compatibility.
func (e *Error) Unwrap() error { return ErrTranspileFailed }

// WithJSXFactory sets the function invoked for each JSX element, e.g. "h".
// The empty string keeps esbuild's default (React.createElement).
func WithJSXFactory(factory string) Option {
	return func(e *Engine) { e.jsxFactory = factory }
}

// WithJSXFragment sets the function invoked for JSX fragments. The empty
// string keeps esbuild's default (React.Fragment).
func WithJSXFragment(fragment string) Option {
	return func(e *Engine) { e.jsxFragment = fragment }
}

// WithTarget sets the language target the output is lowered to. The
// default is api.ESNext: erase and lower only, no downleveling.
func WithTarget(target api.Target) Option {
	return func(e *Engine) { e.target = target }
}

// New creates an esbuild-backed Engine.
func New(opts ...Option) *Engine {
	e := &Engine{target: api.ESNext}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ Transpiler = (*Engine)(nil)

// Transpile converts src to plain JavaScript. Type annotations erase,
// JSX lowers to factory calls, and declaration sources reduce to empty or
// near-empty output. The module shape (imports and exports) is preserved.
func (e *Engine) Transpile(src Source) (string, error) {
	loader, err := loaderFor(src.Media)
	if err != nil {
		return "", &Error{Specifier: src.Specifier, Diagnostics: []string{err.Error()}}
	}

	res := api.Transform(src.Text, api.TransformOptions{
		Loader:      loader,
		Sourcefile:  src.Specifier,
		Target:      e.target,
		JSXFactory:  e.jsxFactory,
		JSXFragment: e.jsxFragment,
	})
	if len(res.Errors) > 0 {
		return "", &Error{
			Specifier:   src.Specifier,
			Diagnostics: api.FormatMessages(res.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage}),
		}
	}
	return string(res.Code), nil
}

// loaderFor maps a media type onto the esbuild loader that parses it.
func loaderFor(mt media.Type) (api.Loader, error) {
	switch mt {
	case media.TypeScript, media.Mts, media.Cts, media.Dts, media.Dmts, media.Dcts:
		return api.LoaderTS, nil
	case media.Tsx:
		return api.LoaderTSX, nil
	case media.Jsx:
		return api.LoaderJSX, nil
	case media.JavaScript, media.Mjs, media.Cjs:
		return api.LoaderJS, nil
	default:
		return api.LoaderNone, fmt.Errorf("cannot transpile %s source", mt)
	}
}

// firstLine trims a formatted esbuild diagnostic down to its first line.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
