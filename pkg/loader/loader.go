// SPDX-License-Identifier: MPL-2.0

// Package loader fetches, classifies, and prepares module sources for a
// JavaScript runtime. A Load walks one pipeline: dispatch on the identity
// scheme, obtain the bytes from the filesystem or the network, classify
// the media type, enforce the JSON import attribute, and transpile
// TypeScript-family and JSX sources to plain JavaScript. Every failure is
// terminal: the loader never retries and never falls back to a different
// origin or media type. There is no cache; each Load fetches again.
package loader

import (
	"context"
	"net/http"

	"esmload-cli/pkg/media"
	"esmload-cli/pkg/specifier"
	"esmload-cli/pkg/transpile"
)

// DefaultMaxSourceBytes caps remote module bodies at 10 MiB.
const DefaultMaxSourceBytes = 10 << 20

// defaultUserAgent identifies the loader to module origins.
const defaultUserAgent = "esmload"

type (
	// Loader loads modules by absolute identity. Construct with New; the
	// zero value has no HTTP client or transpiler. A Loader is immutable
	// after construction and safe for concurrent use.
	Loader struct {
		httpClient     *http.Client
		transpiler     transpile.Transpiler
		userAgent      string
		maxSourceBytes int64
	}

	// Option configures a Loader.
	Option func(*Loader)
)

// WithHTTPClient sets the HTTP client used for http and https origins.
// Passing nil keeps the default. The client's redirect and timeout policy
// applies as-is; loads of redirected modules keep the requested identity.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.httpClient = client
		}
	}
}

// WithTranspiler sets the Transpiler invoked for TypeScript-family and
// JSX sources. Passing nil keeps the default esbuild engine.
func WithTranspiler(t transpile.Transpiler) Option {
	return func(l *Loader) {
		if t != nil {
			l.transpiler = t
		}
	}
}

// WithUserAgent sets the User-Agent header sent to network origins.
func WithUserAgent(ua string) Option {
	return func(l *Loader) {
		if ua != "" {
			l.userAgent = ua
		}
	}
}

// WithMaxSourceBytes caps the size of remote module bodies. A load whose
// body exceeds the cap fails with ErrSourceTooLarge rather than being
// truncated. Non-positive values keep the default.
func WithMaxSourceBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxSourceBytes = n
		}
	}
}

// New creates a Loader with the default HTTP client, the esbuild
// transpiler, and the default body cap, then applies opts.
func New(opts ...Option) *Loader {
	l := &Loader{
		httpClient:     http.DefaultClient,
		transpiler:     transpile.New(),
		userAgent:      defaultUserAgent,
		maxSourceBytes: DefaultMaxSourceBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load obtains the module identified by id and returns it runtime-ready.
// requested carries the import-attribute signal: JSON content loads only
// when requested is RequestedJSON. The context cancels in-flight network
// requests and is checked before filesystem reads.
func (l *Loader) Load(ctx context.Context, id specifier.Identity, requested RequestedType) (*Record, error) {
	switch id.Scheme() {
	case "file":
		return l.loadFile(ctx, id, requested)
	case "http", "https":
		return l.loadRemote(ctx, id, requested)
	default:
		return nil, &UnsupportedSchemeError{Identity: id}
	}
}

// plan maps a classified media type onto the runtime module type and the
// transpile decision. This is the one place Unknown becomes an error;
// contentType seeds the error when a response header drove classification.
func plan(id specifier.Identity, mt media.Type, contentType string) (ModuleType, bool, error) {
	switch mt {
	case media.JavaScript, media.Mjs, media.Cjs:
		return ModuleJavaScript, false, nil
	case media.Jsx, media.TypeScript, media.Mts, media.Cts, media.Dts, media.Dmts, media.Dcts, media.Tsx:
		return ModuleJavaScript, true, nil
	case media.JSON:
		return ModuleJSON, false, nil
	default:
		return 0, false, &UnknownMediaError{Identity: id, ContentType: contentType}
	}
}

// finish runs the shared tail of both origins: the transpile gate and
// record assembly. JavaScript and JSON sources pass through untouched.
func (l *Loader) finish(id specifier.Identity, mt media.Type, mtype ModuleType, needsTranspile bool, source string) (*Record, error) {
	if needsTranspile {
		out, err := l.transpiler.Transpile(transpile.Source{
			Specifier: id.String(),
			Media:     mt,
			Text:      source,
		})
		if err != nil {
			return nil, err
		}
		source = out
	}
	return &Record{Identity: id, Type: mtype, Media: mt, Source: source}, nil
}
