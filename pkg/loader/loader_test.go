// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"esmload-cli/pkg/fspath"
	"esmload-cli/pkg/media"
	"esmload-cli/pkg/specifier"
	"esmload-cli/pkg/transpile"
	"esmload-cli/pkg/types"
)

// stubTranspiler is an injected Transpiler double. It records every call
// and returns a fixed result.
type stubTranspiler struct {
	mu    sync.Mutex
	calls []transpile.Source
	out   string
	err   error
}

func (s *stubTranspiler) Transpile(src transpile.Source) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, src)
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

func (s *stubTranspiler) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func fileIdentity(t *testing.T, p string) specifier.Identity {
	t.Helper()
	raw, err := fspath.ToFileURL(types.FilesystemPath(p))
	if err != nil {
		t.Fatalf("ToFileURL(%q) error: %v", p, err)
	}
	id, err := specifier.Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", raw, err)
	}
	return id
}

func writeModule(t *testing.T, dir, name, content string) specifier.Identity {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
	return fileIdentity(t, p)
}

func TestLoader_Load_TypeScriptFile(t *testing.T) {
	t.Parallel()

	id := writeModule(t, t.TempDir(), "a.ts", "const x: number = 1;")
	rec, err := New().Load(context.Background(), id, RequestedDefault)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if rec.Type != ModuleJavaScript {
		t.Errorf("Record.Type = %v, want ModuleJavaScript", rec.Type)
	}
	if rec.Media != media.TypeScript {
		t.Errorf("Record.Media = %v, want TypeScript", rec.Media)
	}
	if got, want := strings.TrimSpace(rec.Source), "const x = 1;"; got != want {
		t.Errorf("Record.Source = %q, want %q", got, want)
	}
	if rec.Identity != id {
		t.Errorf("Record.Identity = %q, want %q", rec.Identity, id)
	}
}

func TestLoader_Load_JavaScriptPassthrough(t *testing.T) {
	t.Parallel()

	const src = "export const x = 1; // keep me byte-for-byte\n"
	stub := &stubTranspiler{err: errors.New("transpiler must not run for plain JavaScript")}
	l := New(WithTranspiler(stub))

	for _, name := range []string{"a.js", "a.mjs", "a.cjs"} {
		id := writeModule(t, t.TempDir(), name, src)
		rec, err := l.Load(context.Background(), id, RequestedDefault)
		if err != nil {
			t.Fatalf("Load(%s) returned error: %v", name, err)
		}
		if rec.Source != src {
			t.Errorf("Load(%s) source = %q, want untouched %q", name, rec.Source, src)
		}
	}
	if stub.callCount() != 0 {
		t.Errorf("transpiler was invoked %d times for plain JavaScript", stub.callCount())
	}
}

func TestLoader_Load_JSONWithAttribute(t *testing.T) {
	t.Parallel()

	const doc = `{"name": "demo", "n": 1}`
	id := writeModule(t, t.TempDir(), "data.json", doc)
	rec, err := New().Load(context.Background(), id, RequestedJSON)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if rec.Type != ModuleJSON {
		t.Errorf("Record.Type = %v, want ModuleJSON", rec.Type)
	}
	if rec.Source != doc {
		t.Errorf("Record.Source = %q, want raw document", rec.Source)
	}
}

func TestLoader_Load_JSONWithoutAttribute(t *testing.T) {
	t.Parallel()

	id := writeModule(t, t.TempDir(), "data.json", `{}`)
	_, err := New().Load(context.Background(), id, RequestedDefault)
	if err == nil {
		t.Fatal("Load succeeded, want JSONAttributeError")
	}
	if !errors.Is(err, ErrMissingJSONAttribute) {
		t.Errorf("error should wrap ErrMissingJSONAttribute, got: %v", err)
	}
	var jsonErr *JSONAttributeError
	if !errors.As(err, &jsonErr) {
		t.Fatalf("error should be *JSONAttributeError, got: %T", err)
	}
	if jsonErr.Identity != id {
		t.Errorf("JSONAttributeError.Identity = %q, want %q", jsonErr.Identity, id)
	}
	if !strings.Contains(err.Error(), `"type": "json"`) {
		t.Errorf("error message should name the attribute: %q", err.Error())
	}
}

func TestLoader_Load_JSONGuardPrecedesRead(t *testing.T) {
	t.Parallel()

	// The file does not exist; a missing attribute must surface before the
	// read is even attempted.
	id := fileIdentity(t, filepath.Join(t.TempDir(), "absent.json"))
	_, err := New().Load(context.Background(), id, RequestedDefault)
	if !errors.Is(err, ErrMissingJSONAttribute) {
		t.Errorf("error = %v, want JSON attribute error before any read", err)
	}
}

func TestLoader_Load_UnknownExtension(t *testing.T) {
	t.Parallel()

	// Classification fails before any filesystem access, so the file need
	// not exist.
	id := fileIdentity(t, filepath.Join(t.TempDir(), "module.xyz"))
	_, err := New().Load(context.Background(), id, RequestedDefault)
	if err == nil {
		t.Fatal("Load succeeded, want UnknownMediaError")
	}
	if !errors.Is(err, ErrUnknownMediaType) {
		t.Errorf("error should wrap ErrUnknownMediaType, got: %v", err)
	}
	var mediaErr *UnknownMediaError
	if !errors.As(err, &mediaErr) {
		t.Fatalf("error should be *UnknownMediaError, got: %T", err)
	}
	if !strings.Contains(err.Error(), ".xyz") {
		t.Errorf("error message should name the extension: %q", err.Error())
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	t.Parallel()

	id := fileIdentity(t, filepath.Join(t.TempDir(), "absent.ts"))
	_, err := New().Load(context.Background(), id, RequestedDefault)
	if err == nil {
		t.Fatal("Load succeeded, want FetchError")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error should be *FetchError, got: %T", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("cause should stay reachable via errors.Is(fs.ErrNotExist), got: %v", err)
	}
	if fetchErr.Identity != id {
		t.Errorf("FetchError.Identity = %q, want %q", fetchErr.Identity, id)
	}
}

func TestLoader_Load_UnsupportedScheme(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"ftp://example.com/mod.ts", "data:text/javascript,export%20default%201"} {
		id, err := specifier.Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", raw, err)
		}
		_, err = New().Load(context.Background(), id, RequestedDefault)
		if err == nil {
			t.Fatalf("Load(%q) succeeded, want UnsupportedSchemeError", raw)
		}
		if !errors.Is(err, ErrUnsupportedScheme) {
			t.Errorf("Load(%q) error should wrap ErrUnsupportedScheme, got: %v", raw, err)
		}
		if !strings.Contains(err.Error(), "unsupported module specifier") {
			t.Errorf("error message = %q, want unsupported specifier wording", err.Error())
		}
	}
}

func TestLoader_Load_InvalidUTF8(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "bad.js")
	if err := os.WriteFile(p, []byte{0xff, 0xfe, 0x00, 0x41}, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	_, err := New().Load(context.Background(), fileIdentity(t, p), RequestedDefault)
	if !errors.Is(err, ErrSourceNotUTF8) {
		t.Errorf("error = %v, want ErrSourceNotUTF8", err)
	}
}

func TestLoader_Load_JSONRequestForScriptMedia(t *testing.T) {
	t.Parallel()

	// The attribute is a requirement signal, not an override: requesting
	// JSON for TypeScript content still loads it as JavaScript.
	id := writeModule(t, t.TempDir(), "a.ts", "const x: number = 1;")
	rec, err := New().Load(context.Background(), id, RequestedJSON)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if rec.Type != ModuleJavaScript {
		t.Errorf("Record.Type = %v, want ModuleJavaScript", rec.Type)
	}
}

func TestLoader_Load_DeclarationFile(t *testing.T) {
	t.Parallel()

	id := writeModule(t, t.TempDir(), "api.d.ts", "export declare const version: string;")
	rec, err := New().Load(context.Background(), id, RequestedDefault)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if rec.Media != media.Dts {
		t.Errorf("Record.Media = %v, want Dts", rec.Media)
	}
	if strings.TrimSpace(rec.Source) != "" {
		t.Errorf("declaration output = %q, want empty", rec.Source)
	}
}

func TestLoader_Load_ContextCanceled(t *testing.T) {
	t.Parallel()

	id := writeModule(t, t.TempDir(), "a.ts", "const x: number = 1;")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Load(ctx, id, RequestedDefault)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLoader_Load_InjectedTranspiler(t *testing.T) {
	t.Parallel()

	stub := &stubTranspiler{out: "/* rewritten */"}
	id := writeModule(t, t.TempDir(), "a.tsx", "export const el = <div/>;")
	rec, err := New(WithTranspiler(stub)).Load(context.Background(), id, RequestedDefault)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if rec.Source != "/* rewritten */" {
		t.Errorf("Record.Source = %q, want stub output", rec.Source)
	}
	if stub.callCount() != 1 {
		t.Fatalf("transpiler invoked %d times, want 1", stub.callCount())
	}
	call := stub.calls[0]
	if call.Media != media.Tsx {
		t.Errorf("transpiler received media %v, want Tsx", call.Media)
	}
	if call.Specifier != id.String() {
		t.Errorf("transpiler received specifier %q, want %q", call.Specifier, id)
	}
}

func TestLoader_Load_TranspileFailure(t *testing.T) {
	t.Parallel()

	id := writeModule(t, t.TempDir(), "broken.ts", "const =: number;")
	_, err := New().Load(context.Background(), id, RequestedDefault)
	if !errors.Is(err, transpile.ErrTranspileFailed) {
		t.Errorf("error = %v, want ErrTranspileFailed", err)
	}
}

func TestLoader_Load_Concurrent(t *testing.T) {
	t.Parallel()

	id := writeModule(t, t.TempDir(), "a.ts", "const x: number = 1;")
	l := New(WithTranspiler(&stubTranspiler{out: "const x = 1;"}))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Load(context.Background(), id, RequestedDefault)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Load returned error: %v", err)
		}
	}
}

func TestParseRequestedType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    RequestedType
		wantErr bool
	}{
		{"", RequestedDefault, false},
		{"default", RequestedDefault, false},
		{"json", RequestedJSON, false},
		{"JSON", RequestedDefault, true},
		{"yaml", RequestedDefault, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRequestedType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRequestedType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRequestedType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
