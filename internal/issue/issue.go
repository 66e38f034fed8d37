// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ResolutionFailedId Id = iota + 1
	UnsupportedSchemeId
	FetchFailedId
	UnknownMediaTypeId
	MissingJsonAttributeId
	TranspileFailedId
	ConfigLoadFailedId
	ServeRootMissingId
	ServerStartFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	resolutionFailedIssue = &Issue{
		id: ResolutionFailedId,
		mdMsg: `
# Could not resolve the module specifier!

The specifier could not be turned into an absolute module identity.

## Common causes:
- A bare specifier (no prefix), e.g. ` + "`lodash`" + ` — there is no package
  registry or import map to consult
- A referrer that is not an absolute URL
- Malformed URL syntax in the specifier itself

## Things you can try:
- Prefix relative imports with ` + "`/`, `./` or `../`" + `:
~~~
$ esmload resolve ./util.ts --referrer file:///srv/mods/main.ts
~~~

- Pass an absolute URL directly:
~~~
$ esmload resolve https://example.com/mod.ts
~~~

- Check that the --referrer value parses as an absolute URL with a scheme`,
	}

	unsupportedSchemeIssue = &Issue{
		id: UnsupportedSchemeId,
		mdMsg: `
# Unsupported module scheme!

Modules can only be loaded from the local filesystem or over HTTP(S).

## Supported schemes:
- **file** — read from the local filesystem
- **http** / **https** — fetch from a remote origin

## Things you can try:
- Rewrite the specifier to one of the supported schemes
- For local files, use an absolute file URL:
~~~
$ esmload load file:///srv/mods/main.ts
~~~

- Serve a directory over HTTP and load from it:
~~~
$ esmload serve ./mods --port 8080
$ esmload load http://127.0.0.1:8080/main.ts
~~~`,
	}

	fetchFailedIssue = &Issue{
		id: FetchFailedId,
		mdMsg: `
# Failed to fetch the module!

The module bytes could not be obtained from their origin.

## Common causes:
- The file does not exist or is not readable
- The remote server answered with a non-success status (e.g. 404)
- The response carried no Content-Type header
- The source is not valid UTF-8 text, or exceeds the size limit

## Things you can try:
- Check the path or URL for typos
- Verify the remote server is reachable:
~~~
$ curl -I https://example.com/mod.ts
~~~

- Raise the body cap when loading large modules:
~~~cue
http: {
  max_source_bytes: 33554432
}
~~~

- Run with verbose mode for the full error chain:
~~~
$ esmload --verbose load <specifier>
~~~`,
	}

	unknownMediaTypeIssue = &Issue{
		id: UnknownMediaTypeId,
		mdMsg: `
# Unknown media type!

The module's extension or content-type matched nothing in the
classification table. Nothing is ever assumed to be JavaScript.

## Recognized extensions:
- JavaScript: ` + "`.js`, `.mjs`, `.cjs`, `.jsx`" + `
- TypeScript: ` + "`.ts`, `.mts`, `.cts`, `.tsx`, `.d.ts`, `.d.mts`, `.d.cts`" + `
- JSON: ` + "`.json`" + `

## Things you can try:
- Rename the module to carry a recognized extension
- For remote modules, make the server send a recognized Content-Type
  (e.g. ` + "`text/javascript`, `application/typescript`, `application/json`" + `)
- Preview how a specifier classifies without fetching it:
~~~
$ esmload info <specifier>
~~~`,
	}

	missingJsonAttributeIssue = &Issue{
		id: MissingJsonAttributeId,
		mdMsg: `
# JSON module without a JSON import attribute!

JSON content is only accepted when the import explicitly asks for JSON.
This mirrors the ` + "`with { type: \"json\" }`" + ` import-attribute syntax.

## Things you can try:
- Request JSON explicitly:
~~~
$ esmload load file:///srv/data/config.json --with-type json
~~~

- In an importing module, add the attribute:
~~~js
import config from "./config.json" with { type: "json" };
~~~

- If the content is actually a script, fix the extension or the
  server's Content-Type header`,
	}

	transpileFailedIssue = &Issue{
		id: TranspileFailedId,
		mdMsg: `
# Failed to transpile the module!

The source fetched fine but could not be parsed as its classified media
type. Transpile failures are permanent for that source text — fix the
source, not the loader.

## Common causes:
- Syntax errors in the TypeScript or JSX source
- A mislabeled file (e.g. plain text served as ` + "`application/typescript`" + `)

## Things you can try:
- Check the diagnostic above for the offending line and column
- Verify the file really contains what its extension claims
- Run with verbose mode for all diagnostics:
~~~
$ esmload --verbose load <specifier>
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the esmload configuration file.

## Configuration file locations:
- Linux: ~/.config/esmload/config.cue
- macOS: ~/Library/Application Support/esmload/config.cue
- Windows: %APPDATA%\esmload\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ esmload config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/esmload/config.cue
~~~

## Example configuration:
~~~cue
http: {
  timeout_seconds: 30
  user_agent: "esmload"
}

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	serveRootMissingIssue = &Issue{
		id: ServeRootMissingId,
		mdMsg: `
# Serve root not found!

The directory the module server was asked to serve does not exist or is
not a directory.

## Things you can try:
- Check the path passed to ` + "`esmload serve`" + `:
~~~
$ esmload serve ./mods
~~~

- Or set a default root in the configuration:
~~~cue
serve: {
  root: "/srv/mods"
}
~~~`,
	}

	serverStartFailedIssue = &Issue{
		id: ServerStartFailedId,
		mdMsg: `
# Module server failed to start!

The local module origin server could not bind or begin serving.

## Common causes:
- The port is already in use by another process
- The host address is not assigned to any interface
- Binding a privileged port (< 1024) without permission

## Things you can try:
- Pick another port, or let the server auto-select a free one:
~~~
$ esmload serve ./mods --port 0
~~~

- Check what holds the port:
~~~
$ lsof -i :8080
~~~

- Bind localhost only (the default) unless remote access is needed`,
	}

	issues = map[Id]*Issue{
		resolutionFailedIssue.Id():     resolutionFailedIssue,
		unsupportedSchemeIssue.Id():    unsupportedSchemeIssue,
		fetchFailedIssue.Id():          fetchFailedIssue,
		unknownMediaTypeIssue.Id():     unknownMediaTypeIssue,
		missingJsonAttributeIssue.Id(): missingJsonAttributeIssue,
		transpileFailedIssue.Id():      transpileFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		serveRootMissingIssue.Id():     serveRootMissingIssue,
		serverStartFailedIssue.Id():    serverStartFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
