// SPDX-License-Identifier: MPL-2.0

// Package media classifies module sources into media types. Classification
// is a total, pure function over a key of path and optional content-type:
// inputs that match nothing classify as Unknown rather than silently
// falling back to JavaScript. Deciding whether Unknown is an error belongs
// to the caller.
package media

import (
	"path"
	"strings"
)

type (
	// Type identifies the media type of a module source.
	Type int

	// Key is the classification input. ContentType is empty for sources
	// addressed by path alone (the filesystem origin); network origins set
	// it from the response header. Path always participates because several
	// content-types are refined by the path extension.
	Key struct {
		Path        string
		ContentType string
	}
)

const (
	// Unknown marks sources that match no known extension or content-type.
	Unknown Type = iota
	// JavaScript is plain .js source.
	JavaScript
	// Mjs is an ES module forced by the .mjs extension.
	Mjs
	// Cjs is a CommonJS module forced by the .cjs extension.
	Cjs
	// Jsx is JavaScript with JSX syntax.
	Jsx
	// TypeScript is plain .ts source.
	TypeScript
	// Mts is an ES module TypeScript source.
	Mts
	// Cts is a CommonJS TypeScript source.
	Cts
	// Dts is a TypeScript declaration file.
	Dts
	// Dmts is an ES module TypeScript declaration file.
	Dmts
	// Dcts is a CommonJS TypeScript declaration file.
	Dcts
	// Tsx is TypeScript with JSX syntax.
	Tsx
	// JSON is a JSON document imported as a module.
	JSON
)

// String returns the lowercase token for the Type.
func (t Type) String() string {
	switch t {
	case JavaScript:
		return "javascript"
	case Mjs:
		return "mjs"
	case Cjs:
		return "cjs"
	case Jsx:
		return "jsx"
	case TypeScript:
		return "typescript"
	case Mts:
		return "mts"
	case Cts:
		return "cts"
	case Dts:
		return "dts"
	case Dmts:
		return "dmts"
	case Dcts:
		return "dcts"
	case Tsx:
		return "tsx"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// ShouldTranspile reports whether sources of this type must be transpiled
// before a JavaScript runtime can evaluate them.
func (t Type) ShouldTranspile() bool {
	switch t {
	case Jsx, TypeScript, Mts, Cts, Dts, Dmts, Dcts, Tsx:
		return true
	default:
		return false
	}
}

// IsDeclaration reports whether the type is a TypeScript declaration
// variant. Declarations transpile to empty or near-empty output.
func (t Type) IsDeclaration() bool {
	switch t {
	case Dts, Dmts, Dcts:
		return true
	default:
		return false
	}
}

// ContentType returns the canonical content-type for serving sources of
// this type, or "" for Unknown.
func (t Type) ContentType() string {
	switch t {
	case JavaScript, Mjs, Cjs:
		return "text/javascript"
	case Jsx:
		return "text/jsx"
	case TypeScript, Mts, Cts, Dts, Dmts, Dcts:
		return "application/typescript"
	case Tsx:
		return "text/tsx"
	case JSON:
		return "application/json"
	default:
		return ""
	}
}

// Detect classifies a source. An empty ContentType classifies by path
// alone; otherwise the content-type decides, with the path refining
// family-internal variants. Detect never fails: unmatched inputs yield
// Unknown.
func Detect(k Key) Type {
	if k.ContentType == "" {
		return FromPath(k.Path)
	}
	return FromContentType(k.Path, k.ContentType)
}

// FromPath classifies by file extension. Matching is case-insensitive and
// recognizes the compound declaration extensions (.d.ts, .d.mts, .d.cts)
// before the plain ones.
func FromPath(p string) Type {
	s := strings.ToLower(p)
	switch {
	case strings.HasSuffix(s, ".d.ts"):
		return Dts
	case strings.HasSuffix(s, ".d.mts"):
		return Dmts
	case strings.HasSuffix(s, ".d.cts"):
		return Dcts
	}
	switch path.Ext(s) {
	case ".ts":
		return TypeScript
	case ".mts":
		return Mts
	case ".cts":
		return Cts
	case ".tsx":
		return Tsx
	case ".js":
		return JavaScript
	case ".mjs":
		return Mjs
	case ".cjs":
		return Cjs
	case ".jsx":
		return Jsx
	case ".json":
		return JSON
	default:
		return Unknown
	}
}

// FromContentType classifies by a content-type header value, with the path
// extension refining variants inside the TypeScript and JavaScript
// families. text/plain and application/octet-stream carry no signal and
// defer to the path; any other unrecognized content-type is Unknown.
func FromContentType(p, contentType string) Type {
	mime := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch mime {
	case "application/typescript",
		"text/typescript",
		"video/vnd.dlna.mpeg-tts",
		"video/mp2t",
		"application/x-typescript":
		return refineByExtension(p, TypeScript)
	case "application/javascript",
		"text/javascript",
		"application/ecmascript",
		"text/ecmascript",
		"application/x-javascript",
		"application/node":
		return refineByExtension(p, JavaScript)
	case "text/jsx":
		return Jsx
	case "text/tsx":
		return Tsx
	case "application/json", "text/json":
		return JSON
	case "text/plain", "application/octet-stream":
		return FromPath(p)
	default:
		return Unknown
	}
}

// refineByExtension narrows a family-level classification using the path
// extension. Paths without a recognized variant extension keep the
// family's fallback type, so a server that says text/javascript about a
// .ts path is believed.
func refineByExtension(p string, fallback Type) Type {
	s := strings.ToLower(p)
	switch {
	case strings.HasSuffix(s, ".d.ts"):
		return Dts
	case strings.HasSuffix(s, ".d.mts"):
		return Dmts
	case strings.HasSuffix(s, ".d.cts"):
		return Dcts
	}
	switch path.Ext(s) {
	case ".jsx":
		return Jsx
	case ".mjs":
		return Mjs
	case ".cjs":
		return Cjs
	case ".tsx":
		return Tsx
	case ".mts":
		return Mts
	case ".cts":
		return Cts
	default:
		return fallback
	}
}
