// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"esmload-cli/internal/app/load"
	"esmload-cli/pkg/fspath"
	"esmload-cli/pkg/loader"
	"esmload-cli/pkg/media"
	"esmload-cli/pkg/specifier"
	"esmload-cli/pkg/types"
)

// stubLoadService is a LoadService test double with per-method overrides.
type stubLoadService struct {
	resolveFn func(spec, referrer string) (specifier.Identity, error)
	inspectFn func(spec, referrer string) (*load.Inspection, error)
	loadFn    func(spec, referrer, requested string) (*loader.Record, error)
}

func (s *stubLoadService) Resolve(_ context.Context, spec, referrer string) (specifier.Identity, error) {
	return s.resolveFn(spec, referrer)
}

func (s *stubLoadService) Inspect(_ context.Context, spec, referrer string) (*load.Inspection, error) {
	return s.inspectFn(spec, referrer)
}

func (s *stubLoadService) Load(_ context.Context, spec, referrer, requested string) (*loader.Record, error) {
	return s.loadFn(spec, referrer, requested)
}

// newTestApp builds an App around a stub service and output buffers.
func newTestApp(t *testing.T, loads LoadService) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app, err := NewApp(Dependencies{
		Loads:  loads,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app, &stdout, &stderr
}

func TestResolveCommand_PrintsIdentity(t *testing.T) {
	t.Parallel()

	stub := &stubLoadService{
		resolveFn: func(spec, referrer string) (specifier.Identity, error) {
			if spec != "./util.ts" || referrer != "https://example.com/main.ts" {
				t.Errorf("Resolve called with (%q, %q)", spec, referrer)
			}
			return "https://example.com/util.ts", nil
		},
	}
	app, stdout, _ := newTestApp(t, stub)

	cmd := newResolveCommand(app)
	cmd.SetArgs([]string{"./util.ts", "--referrer", "https://example.com/main.ts"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := stdout.String(); got != "https://example.com/util.ts\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestResolveCommand_ReferrerDirectoryBecomesFileURL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wantRef, err := fspath.ToDirURL(types.FilesystemPath(dir))
	if err != nil {
		t.Fatalf("ToDirURL: %v", err)
	}

	var gotRef string
	stub := &stubLoadService{
		resolveFn: func(spec, referrer string) (specifier.Identity, error) {
			gotRef = referrer
			return specifier.Resolve(spec, referrer)
		},
	}
	app, stdout, _ := newTestApp(t, stub)

	cmd := newResolveCommand(app)
	cmd.SetArgs([]string{"./util.ts", "--referrer", dir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if gotRef != wantRef {
		t.Errorf("referrer passed to service = %q, want %q", gotRef, wantRef)
	}
	if got, want := stdout.String(), wantRef+"util.ts\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestNormalizeReferrer(t *testing.T) {
	t.Parallel()

	t.Run("URLs pass through", func(t *testing.T) {
		t.Parallel()

		for _, ref := range []string{"", "https://example.com/main.ts", "file:///srv/mods/main.ts"} {
			got, err := normalizeReferrer(ref)
			if err != nil {
				t.Fatalf("normalizeReferrer(%q) error: %v", ref, err)
			}
			if got != ref {
				t.Errorf("normalizeReferrer(%q) = %q, want unchanged", ref, got)
			}
		}
	})

	t.Run("file path becomes file URL", func(t *testing.T) {
		t.Parallel()

		p := filepath.Join(t.TempDir(), "main.ts")
		if err := os.WriteFile(p, []byte("export {};\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		want, err := fspath.ToFileURL(types.FilesystemPath(p))
		if err != nil {
			t.Fatalf("ToFileURL: %v", err)
		}
		got, err := normalizeReferrer(p)
		if err != nil {
			t.Fatalf("normalizeReferrer: %v", err)
		}
		if got != want {
			t.Errorf("normalizeReferrer(%q) = %q, want %q", p, got, want)
		}
	})

	t.Run("directory gains trailing slash", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		got, err := normalizeReferrer(dir)
		if err != nil {
			t.Fatalf("normalizeReferrer: %v", err)
		}
		if !strings.HasSuffix(got, "/") {
			t.Errorf("normalizeReferrer(%q) = %q, want trailing slash", dir, got)
		}
		if !strings.HasPrefix(got, "file://") {
			t.Errorf("normalizeReferrer(%q) = %q, want file URL", dir, got)
		}
	})
}

func TestResolveCommand_ErrorReturnsExitError(t *testing.T) {
	t.Parallel()

	cause := &specifier.ResolutionError{Specifier: "lodash", Err: specifier.ErrImportPrefixMissing}
	stub := &stubLoadService{
		resolveFn: func(spec, referrer string) (specifier.Identity, error) {
			return "", cause
		},
	}
	app, _, stderr := newTestApp(t, stub)

	cmd := newResolveCommand(app)
	cmd.SetArgs([]string{"lodash"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Execute should fail")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error should be *ExitError, got %T", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	if !strings.Contains(stderr.String(), "lodash") {
		t.Errorf("stderr should mention the specifier, got %q", stderr.String())
	}
}

func TestLoadCommand_PrintsSource(t *testing.T) {
	t.Parallel()

	stub := &stubLoadService{
		loadFn: func(spec, referrer, requested string) (*loader.Record, error) {
			return &loader.Record{
				Identity: "https://example.com/mod.ts",
				Type:     loader.ModuleJavaScript,
				Media:    media.TypeScript,
				Source:   "export const n = 1;\n",
			}, nil
		},
	}
	app, stdout, stderr := newTestApp(t, stub)

	cmd := newLoadCommand(app)
	cmd.SetArgs([]string{"https://example.com/mod.ts"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := stdout.String(); got != "export const n = 1;\n" {
		t.Errorf("stdout = %q", got)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr should be empty without --meta, got %q", stderr.String())
	}
}

func TestLoadCommand_MetaGoesToStderr(t *testing.T) {
	t.Parallel()

	stub := &stubLoadService{
		loadFn: func(spec, referrer, requested string) (*loader.Record, error) {
			if requested != "json" {
				t.Errorf("requested = %q, want json", requested)
			}
			return &loader.Record{
				Identity: "https://example.com/config.json",
				Type:     loader.ModuleJSON,
				Media:    media.JSON,
				Source:   `{"ok": true}`,
			}, nil
		},
	}
	app, stdout, stderr := newTestApp(t, stub)

	cmd := newLoadCommand(app)
	cmd.SetArgs([]string{"https://example.com/config.json", "--with-type", "json", "--meta"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := stdout.String(); got != `{"ok": true}` {
		t.Errorf("stdout = %q", got)
	}
	for _, want := range []string{"https://example.com/config.json", "json"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr missing %q, got %q", want, stderr.String())
		}
	}
}

func TestLoadCommand_ErrorRendersIssue(t *testing.T) {
	t.Parallel()

	cause := &loader.JSONAttributeError{Identity: "https://example.com/config.json"}
	stub := &stubLoadService{
		loadFn: func(spec, referrer, requested string) (*loader.Record, error) {
			return nil, cause
		},
	}
	app, stdout, stderr := newTestApp(t, stub)

	cmd := newLoadCommand(app)
	cmd.SetArgs([]string{"https://example.com/config.json"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Execute should fail")
	}
	if !errors.Is(err, loader.ErrMissingJSONAttribute) {
		t.Errorf("error should unwrap to the sentinel, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty on failure, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "JSON") {
		t.Errorf("stderr should mention JSON, got %q", stderr.String())
	}
}

func TestInfoCommand_PrintsInspection(t *testing.T) {
	t.Parallel()

	stub := &stubLoadService{
		inspectFn: func(spec, referrer string) (*load.Inspection, error) {
			return &load.Inspection{
				Identity:        "https://example.com/widget.tsx",
				Scheme:          "https",
				SchemeSupported: true,
				Media:           media.Tsx,
				Transpile:       true,
			}, nil
		},
	}
	app, stdout, _ := newTestApp(t, stub)

	cmd := newInfoCommand(app)
	cmd.SetArgs([]string{"https://example.com/widget.tsx"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"https://example.com/widget.tsx", "https", "tsx", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q, got %q", want, out)
		}
	}
}

func TestNewApp_Defaults(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}

	if app.Config == nil {
		t.Error("Config should default to the file provider")
	}
	if app.Loads == nil {
		t.Error("Loads should default to the pipeline service")
	}
}
