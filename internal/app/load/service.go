// SPDX-License-Identifier: MPL-2.0

package load

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"esmload-cli/internal/config"
	"esmload-cli/pkg/loader"
	"esmload-cli/pkg/media"
	"esmload-cli/pkg/specifier"
	"esmload-cli/pkg/transpile"
)

type (
	// Service runs the module loading pipeline with settings taken from the
	// application configuration. Construct with NewService; a Service is
	// immutable after construction and safe for concurrent use.
	Service struct {
		loader *loader.Loader
	}

	// Inspection is the no-fetch preview of how a load would go: identity
	// resolution and extension-based classification without touching the
	// origin. Network loads may still classify differently once the
	// response's content-type arrives.
	Inspection struct {
		// Identity is the resolved absolute module identity.
		Identity specifier.Identity
		// Scheme is the identity's URL scheme.
		Scheme string
		// SchemeSupported reports whether an origin handles the scheme.
		SchemeSupported bool
		// Media is the extension-based classification of the identity path.
		Media media.Type
		// Transpile reports whether sources of this media type would be
		// transpiled before reaching the runtime.
		Transpile bool
	}
)

// NewService builds a Service from the application configuration. Invalid
// configuration fields surface as an error rather than silently falling
// back to defaults.
func NewService(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("NewService: cfg must not be nil")
	}
	if isValid, errs := cfg.IsValid(); !isValid {
		return nil, errs[0]
	}

	client := &http.Client{
		Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	}

	transpiler := transpile.New(
		transpile.WithJSXFactory(cfg.Transpile.JSXFactory.String()),
		transpile.WithJSXFragment(cfg.Transpile.JSXFragment.String()),
	)

	l := loader.New(
		loader.WithHTTPClient(client),
		loader.WithTranspiler(transpiler),
		loader.WithUserAgent(cfg.HTTP.UserAgent.String()),
		loader.WithMaxSourceBytes(int64(cfg.HTTP.MaxSourceBytes)),
	)

	return &Service{loader: l}, nil
}

// Resolve turns a specifier (and optional referrer) into an absolute module
// identity without touching any origin.
func (s *Service) Resolve(spec, referrer string) (specifier.Identity, error) {
	if referrer == "" {
		return specifier.Parse(spec)
	}
	return specifier.Resolve(spec, referrer)
}

// Inspect resolves a specifier and previews its classification without
// fetching anything.
func (s *Service) Inspect(spec, referrer string) (*Inspection, error) {
	id, err := s.Resolve(spec, referrer)
	if err != nil {
		return nil, err
	}

	scheme := id.Scheme()
	mt := media.FromPath(id.Path())

	return &Inspection{
		Identity:        id,
		Scheme:          scheme,
		SchemeSupported: schemeSupported(scheme),
		Media:           mt,
		Transpile:       mt.ShouldTranspile(),
	}, nil
}

// Load resolves a specifier and runs the full pipeline: fetch, classify,
// guard, transpile. requested carries the import-attribute signal in its
// textual form ("", "default", or "json").
func (s *Service) Load(ctx context.Context, spec, referrer, requested string) (*loader.Record, error) {
	rt, err := loader.ParseRequestedType(requested)
	if err != nil {
		return nil, err
	}

	id, err := s.Resolve(spec, referrer)
	if err != nil {
		return nil, err
	}

	return s.loader.Load(ctx, id, rt)
}

// schemeSupported reports whether the loader has an origin for the scheme.
func schemeSupported(scheme string) bool {
	switch scheme {
	case "file", "http", "https":
		return true
	default:
		return false
	}
}
