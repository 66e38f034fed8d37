// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"fmt"

	"esmload-cli/pkg/media"
	"esmload-cli/pkg/specifier"
)

type (
	// ModuleType is what the runtime receives: every source either becomes
	// evaluable JavaScript or stays a JSON document.
	ModuleType int

	// RequestedType is the import-attribute signal supplied by the host per
	// load. RequestedJSON corresponds to `with { type: "json" }` on the
	// import statement.
	RequestedType int

	// Record is a loaded module, ready to hand to a runtime.
	Record struct {
		// Identity is the absolute module identity the load was asked for.
		// Redirected network loads keep the requested identity.
		Identity specifier.Identity
		// Type tells the runtime how to instantiate the module.
		Type ModuleType
		// Media is the classified media type the pipeline decided on.
		Media media.Type
		// Source is the final source text, post-transpile when the media
		// type required it.
		Source string
	}
)

const (
	// ModuleJavaScript marks sources evaluable as JavaScript, including
	// everything that was transpiled into it.
	ModuleJavaScript ModuleType = iota
	// ModuleJSON marks JSON documents imported with a JSON attribute.
	ModuleJSON
)

const (
	// RequestedDefault is a plain import with no type attribute.
	RequestedDefault RequestedType = iota
	// RequestedJSON is an import carrying `with { type: "json" }`.
	RequestedJSON
)

// String returns the lowercase token for the ModuleType.
func (t ModuleType) String() string {
	switch t {
	case ModuleJSON:
		return "json"
	default:
		return "javascript"
	}
}

// String returns the lowercase token for the RequestedType.
func (t RequestedType) String() string {
	switch t {
	case RequestedJSON:
		return "json"
	default:
		return "default"
	}
}

// ParseRequestedType parses the textual form used by flags and
// configuration. The empty string means RequestedDefault.
func ParseRequestedType(s string) (RequestedType, error) {
	switch s {
	case "", "default":
		return RequestedDefault, nil
	case "json":
		return RequestedJSON, nil
	default:
		return RequestedDefault, fmt.Errorf("unknown requested module type %q (valid: default, json)", s)
	}
}
