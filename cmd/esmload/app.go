// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"esmload-cli/internal/app/load"
	"esmload-cli/internal/config"
	"esmload-cli/pkg/loader"
	"esmload-cli/pkg/specifier"
	"esmload-cli/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer — all Cobra command handlers receive an App reference and delegate
	// business logic through its service interfaces (Loads, Config).
	App struct {
		Config ConfigProvider
		Loads  LoadService
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp. Tests can supply mock implementations
	// to isolate specific service behavior.
	Dependencies struct {
		Config ConfigProvider
		Loads  LoadService
		Stdout io.Writer
		Stderr io.Writer
	}

	// LoadService runs the module loading pipeline operations the commands
	// are built on. Implementations must not write directly to stdout/stderr;
	// results are returned as structured data for the CLI layer to render.
	LoadService interface {
		Resolve(ctx context.Context, spec, referrer string) (specifier.Identity, error)
		Inspect(ctx context.Context, spec, referrer string) (*load.Inspection, error)
		Load(ctx context.Context, spec, referrer, requested string) (*loader.Record, error)
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// appLoadService implements LoadService on top of internal/app/load,
	// assembling a pipeline service from the active configuration per call.
	// Assembly is cheap (no I/O beyond the cached config load), so there is
	// no cross-call state to invalidate.
	appLoadService struct {
		config ConfigProvider
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Loads == nil {
		deps.Loads = &appLoadService{config: deps.Config}
	}

	return &App{
		Config: deps.Config,
		Loads:  deps.Loads,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

// service assembles a pipeline service from configuration. Config load
// failures fall back to defaults; the root command already surfaced the
// load error as a warning.
func (s *appLoadService) service(ctx context.Context) (*load.Service, error) {
	cfg, err := s.config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(cfgFile)})
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return load.NewService(cfg)
}

// Resolve turns a specifier into an absolute module identity.
func (s *appLoadService) Resolve(ctx context.Context, spec, referrer string) (specifier.Identity, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return "", err
	}
	return svc.Resolve(spec, referrer)
}

// Inspect previews how a specifier would classify without fetching it.
func (s *appLoadService) Inspect(ctx context.Context, spec, referrer string) (*load.Inspection, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Inspect(spec, referrer)
}

// Load runs the full loading pipeline for a specifier.
func (s *appLoadService) Load(ctx context.Context, spec, referrer, requested string) (*loader.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Load(ctx, spec, referrer, requested)
}
