// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"esmload-cli/pkg/loader"
	"esmload-cli/pkg/media"
	"esmload-cli/pkg/specifier"
	"esmload-cli/pkg/transpile"
)

const (
	// sampleTypeScript is a representative TypeScript module for benchmarking
	// the transpile path. It mixes interfaces, generics, and annotations so
	// the type eraser has real work to do.
	sampleTypeScript = `
interface Widget {
	id: number;
	label: string;
	tags?: string[];
}

type Registry = Map<number, Widget>;

export function register(reg: Registry, w: Widget): Registry {
	reg.set(w.id, w);
	return reg;
}

export function find(reg: Registry, id: number): Widget | undefined {
	return reg.get(id);
}

export const defaults: Widget[] = [
	{ id: 1, label: "alpha", tags: ["a"] },
	{ id: 2, label: "beta" },
];

export default function describe(w: Widget): string {
	return w.label + " (" + String(w.id) + ")";
}
`

	// sampleTsx exercises the JSX lowering path on top of type erasure.
	sampleTsx = `
interface Props {
	title: string;
	items: string[];
}

export function List({ title, items }: Props) {
	return (
		<section>
			<h2>{title}</h2>
			<ul>
				{items.map((item) => (
					<li key={item}>{item}</li>
				))}
			</ul>
		</section>
	);
}
`

	// sampleJavaScript passes the pipeline untouched; it measures the
	// passthrough cost of a load that needs no transpilation.
	sampleJavaScript = `
export function add(a, b) {
	return a + b;
}

export const table = Array.from({ length: 64 }, (_, i) => i * i);

export default function sum(values) {
	let total = 0;
	for (const v of values) {
		total += v;
	}
	return total;
}
`

	sampleJSON = `{"name": "benchmark", "version": "1.0.0", "entries": [1, 2, 3, 4, 5]}`
)

// resolveCases cover the specifier shapes the resolver sees in practice.
var resolveCases = []struct {
	spec     string
	referrer string
}{
	{"https://example.com/mods/main.ts", ""},
	{"file:///srv/mods/util.mjs", ""},
	{"./util.ts", "https://example.com/mods/main.ts"},
	{"../lib/helpers.js", "https://example.com/app/pages/index.js"},
	{"/assets/data.json", "file:///srv/mods/main.ts"},
	{"https://example.com/a/b/../c/./mod.ts", ""},
}

func BenchmarkSpecifierParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := specifier.Parse("https://example.com/a/b/../c/./mod.ts?v=2"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSpecifierResolve(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c := resolveCases[i%len(resolveCases)]
		if _, err := specifier.Resolve(c.spec, c.referrer); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMediaFromPath(b *testing.B) {
	paths := []string{
		"/srv/mods/main.ts",
		"/srv/mods/widget.tsx",
		"/srv/mods/legacy.cjs",
		"/srv/data/config.json",
		"/srv/notes/readme.txt",
		"/srv/mods/types.d.ts",
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		media.FromPath(paths[i%len(paths)])
	}
}

func BenchmarkMediaFromContentType(b *testing.B) {
	keys := []struct {
		path        string
		contentType string
	}{
		{"/mods/main.ts", "application/typescript; charset=utf-8"},
		{"/mods/app.js", "text/javascript"},
		{"/data/config.json", "application/json"},
		{"/mods/util.mts", "text/plain"},
		{"/blobs/data.bin", "application/octet-stream"},
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		k := keys[i%len(keys)]
		media.FromContentType(k.path, k.contentType)
	}
}

func BenchmarkTranspileTypeScript(b *testing.B) {
	engine := transpile.New()
	src := transpile.Source{
		Specifier: "file:///bench/widget.ts",
		Media:     media.TypeScript,
		Text:      sampleTypeScript,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Transpile(src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTranspileTsx(b *testing.B) {
	engine := transpile.New()
	src := transpile.Source{
		Specifier: "file:///bench/list.tsx",
		Media:     media.Tsx,
		Text:      sampleTsx,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Transpile(src); err != nil {
			b.Fatal(err)
		}
	}
}

// writeBenchModule writes content under dir and returns its file identity.
func writeBenchModule(b *testing.B, dir, name, content string) specifier.Identity {
	b.Helper()

	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		b.Fatal(err)
	}
	id, err := specifier.Parse("file://" + filepath.ToSlash(p))
	if err != nil {
		b.Fatal(err)
	}
	return id
}

func BenchmarkLoadFileTypeScript(b *testing.B) {
	dir := b.TempDir()
	id := writeBenchModule(b, dir, "widget.ts", sampleTypeScript)
	l := loader.New(loader.WithTranspiler(transpile.New()))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := l.Load(ctx, id, loader.RequestedDefault); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadFileJavaScript(b *testing.B) {
	dir := b.TempDir()
	id := writeBenchModule(b, dir, "sum.js", sampleJavaScript)
	l := loader.New(loader.WithTranspiler(transpile.New()))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := l.Load(ctx, id, loader.RequestedDefault); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadFileJSON(b *testing.B) {
	dir := b.TempDir()
	id := writeBenchModule(b, dir, "config.json", sampleJSON)
	l := loader.New(loader.WithTranspiler(transpile.New()))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := l.Load(ctx, id, loader.RequestedJSON); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadRemoteTypeScript(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping network benchmark in short mode")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/typescript")
		_, _ = w.Write([]byte(sampleTypeScript))
	}))
	defer srv.Close()

	id, err := specifier.Parse(srv.URL + "/widget.ts")
	if err != nil {
		b.Fatal(err)
	}
	l := loader.New(
		loader.WithHTTPClient(srv.Client()),
		loader.WithTranspiler(transpile.New()),
	)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := l.Load(ctx, id, loader.RequestedDefault); err != nil {
			b.Fatal(err)
		}
	}
}
