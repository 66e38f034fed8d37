// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"esmload-cli/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// maxFetchTimeoutSeconds caps per-request fetch timeouts at one hour.
	maxFetchTimeoutSeconds = 3600
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidFetchTimeout is returned when a FetchTimeoutSeconds value is out of range.
	ErrInvalidFetchTimeout = errors.New("invalid fetch timeout")
	// ErrInvalidUserAgent is returned when a UserAgent value is whitespace-only.
	ErrInvalidUserAgent = errors.New("invalid user agent")
	// ErrInvalidSourceByteLimit is returned when a SourceByteLimit value is not positive.
	ErrInvalidSourceByteLimit = errors.New("invalid source byte limit")
	// ErrInvalidJSXSymbol is returned when a JSXSymbol value contains whitespace.
	ErrInvalidJSXSymbol = errors.New("invalid jsx symbol")
	// ErrInvalidServeHost is returned when a ServeHost value is whitespace-only.
	ErrInvalidServeHost = errors.New("invalid serve host")
	// ErrInvalidHTTPConfig is the sentinel error wrapped by InvalidHTTPConfigError.
	ErrInvalidHTTPConfig = errors.New("invalid http config")
	// ErrInvalidTranspileConfig is the sentinel error wrapped by InvalidTranspileConfigError.
	ErrInvalidTranspileConfig = errors.New("invalid transpile config")
	// ErrInvalidServeConfig is the sentinel error wrapped by InvalidServeConfigError.
	ErrInvalidServeConfig = errors.New("invalid serve config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// FetchTimeoutSeconds bounds how long a single remote module fetch may take.
	// The zero value disables the timeout. Defined locally to avoid coupling
	// config to pkg/loader; the orchestrator converts to time.Duration at the boundary.
	FetchTimeoutSeconds int

	// InvalidFetchTimeoutError is returned when a FetchTimeoutSeconds value is
	// negative or above the one-hour cap. It wraps ErrInvalidFetchTimeout for errors.Is().
	InvalidFetchTimeoutError struct {
		Value FetchTimeoutSeconds
	}

	// UserAgent identifies this client in outgoing HTTP requests.
	// A valid value must be non-empty and not whitespace-only.
	UserAgent string

	// InvalidUserAgentError is returned when a UserAgent value is empty or
	// whitespace-only. It wraps ErrInvalidUserAgent for errors.Is().
	InvalidUserAgentError struct {
		Value UserAgent
	}

	// SourceByteLimit caps how many bytes of module source a single load will read.
	SourceByteLimit int64

	// InvalidSourceByteLimitError is returned when a SourceByteLimit value is
	// not positive. It wraps ErrInvalidSourceByteLimit for errors.Is().
	InvalidSourceByteLimitError struct {
		Value SourceByteLimit
	}

	// JSXSymbol names a JSX factory or fragment expression, e.g. "React.createElement"
	// or "h". The zero value ("") is valid and means "use the transpiler default".
	JSXSymbol string

	// InvalidJSXSymbolError is returned when a JSXSymbol value contains whitespace.
	// It wraps ErrInvalidJSXSymbol for errors.Is().
	InvalidJSXSymbolError struct {
		Value JSXSymbol
	}

	// ServeHost is the interface address the module server binds to.
	// A valid value must be non-empty and not whitespace-only.
	ServeHost string

	// InvalidServeHostError is returned when a ServeHost value is empty or
	// whitespace-only. It wraps ErrInvalidServeHost for errors.Is().
	InvalidServeHostError struct {
		Value ServeHost
	}

	// InvalidHTTPConfigError is returned when an HTTPConfig has invalid fields.
	// It wraps ErrInvalidHTTPConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidHTTPConfigError struct {
		FieldErrors []error
	}

	// InvalidTranspileConfigError is returned when a TranspileConfig has invalid fields.
	// It wraps ErrInvalidTranspileConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidTranspileConfigError struct {
		FieldErrors []error
	}

	// InvalidServeConfigError is returned when a ServeConfig has invalid fields.
	// It wraps ErrInvalidServeConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidServeConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// HTTP configures remote module fetching
		HTTP HTTPConfig `json:"http" mapstructure:"http"`
		// Transpile configures TypeScript and JSX transformation
		Transpile TranspileConfig `json:"transpile" mapstructure:"transpile"`
		// Serve configures the local module server
		Serve ServeConfig `json:"serve" mapstructure:"serve"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// HTTPConfig configures remote module fetching.
	HTTPConfig struct {
		// TimeoutSeconds bounds each remote fetch; 0 disables the timeout
		TimeoutSeconds FetchTimeoutSeconds `json:"timeout_seconds" mapstructure:"timeout_seconds"`
		// UserAgent is sent with every remote request
		UserAgent UserAgent `json:"user_agent" mapstructure:"user_agent"`
		// MaxSourceBytes caps the size of a fetched module body
		MaxSourceBytes SourceByteLimit `json:"max_source_bytes" mapstructure:"max_source_bytes"`
	}

	// TranspileConfig configures TypeScript and JSX transformation.
	TranspileConfig struct {
		// JSXFactory overrides the JSX factory expression (default: React.createElement)
		JSXFactory JSXSymbol `json:"jsx_factory" mapstructure:"jsx_factory"`
		// JSXFragment overrides the JSX fragment expression (default: React.Fragment)
		JSXFragment JSXSymbol `json:"jsx_fragment" mapstructure:"jsx_fragment"`
	}

	// ServeConfig configures the local module server.
	ServeConfig struct {
		// Host is the interface address to bind
		Host ServeHost `json:"host" mapstructure:"host"`
		// Port is the TCP port to listen on; 0 auto-selects a free port
		Port types.ListenPort `json:"port" mapstructure:"port"`
		// Root is the directory whose files are served as modules
		Root types.FilesystemPath `json:"root" mapstructure:"root"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// IsValid returns whether the HTTPConfig has valid fields.
// It delegates to TimeoutSeconds.IsValid(), UserAgent.IsValid(),
// and MaxSourceBytes.IsValid().
func (c HTTPConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.TimeoutSeconds.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UserAgent.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.MaxSourceBytes.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidHTTPConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHTTPConfigError.
func (e *InvalidHTTPConfigError) Error() string {
	return fmt.Sprintf("invalid http config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidHTTPConfig for errors.Is() compatibility.
func (e *InvalidHTTPConfigError) Unwrap() error { return ErrInvalidHTTPConfig }

// IsValid returns whether the TranspileConfig has valid fields.
// It delegates to JSXFactory.IsValid() and JSXFragment.IsValid().
func (c TranspileConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.JSXFactory.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.JSXFragment.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidTranspileConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTranspileConfigError.
func (e *InvalidTranspileConfigError) Error() string {
	return fmt.Sprintf("invalid transpile config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidTranspileConfig for errors.Is() compatibility.
func (e *InvalidTranspileConfigError) Unwrap() error { return ErrInvalidTranspileConfig }

// IsValid returns whether the ServeConfig has valid fields.
// It delegates to Host.IsValid() and to the Validate() methods of the
// pkg/types scalars Port and Root.
func (c ServeConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Host.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if err := c.Port.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Root.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidServeConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServeConfigError.
func (e *InvalidServeConfigError) Error() string {
	return fmt.Sprintf("invalid serve config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidServeConfig for errors.Is() compatibility.
func (e *InvalidServeConfigError) Unwrap() error { return ErrInvalidServeConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to HTTP.IsValid(), Transpile.IsValid(), Serve.IsValid(),
// and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.HTTP.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Transpile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Serve.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidFetchTimeoutError.
func (e *InvalidFetchTimeoutError) Error() string {
	return fmt.Sprintf("invalid fetch timeout %d (valid: 0 to %d seconds)", e.Value, maxFetchTimeoutSeconds)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidFetchTimeoutError) Unwrap() error {
	return ErrInvalidFetchTimeout
}

// IsValid returns whether the FetchTimeoutSeconds is within the supported range.
// Zero is valid and disables the timeout.
func (t FetchTimeoutSeconds) IsValid() (bool, []error) {
	if t < 0 || t > maxFetchTimeoutSeconds {
		return false, []error{&InvalidFetchTimeoutError{Value: t}}
	}
	return true, nil
}

// String returns the string representation of the UserAgent.
func (u UserAgent) String() string { return string(u) }

// IsValid returns whether the UserAgent is valid.
// A valid value must be non-empty and not whitespace-only.
func (u UserAgent) IsValid() (bool, []error) {
	if strings.TrimSpace(string(u)) == "" {
		return false, []error{&InvalidUserAgentError{Value: u}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUserAgentError.
func (e *InvalidUserAgentError) Error() string {
	return fmt.Sprintf("invalid user agent %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidUserAgent for errors.Is() compatibility.
func (e *InvalidUserAgentError) Unwrap() error { return ErrInvalidUserAgent }

// IsValid returns whether the SourceByteLimit is valid.
// A valid limit must be positive.
func (s SourceByteLimit) IsValid() (bool, []error) {
	if s <= 0 {
		return false, []error{&InvalidSourceByteLimitError{Value: s}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSourceByteLimitError.
func (e *InvalidSourceByteLimitError) Error() string {
	return fmt.Sprintf("invalid source byte limit %d: must be positive", e.Value)
}

// Unwrap returns ErrInvalidSourceByteLimit for errors.Is() compatibility.
func (e *InvalidSourceByteLimitError) Unwrap() error { return ErrInvalidSourceByteLimit }

// String returns the string representation of the JSXSymbol.
func (j JSXSymbol) String() string { return string(j) }

// IsValid returns whether the JSXSymbol is valid.
// The zero value ("") is valid (means "use the transpiler default").
// Non-zero values must not contain whitespace.
func (j JSXSymbol) IsValid() (bool, []error) {
	if strings.ContainsAny(string(j), " \t\n\r") {
		return false, []error{&InvalidJSXSymbolError{Value: j}}
	}
	return true, nil
}

// Error implements the error interface for InvalidJSXSymbolError.
func (e *InvalidJSXSymbolError) Error() string {
	return fmt.Sprintf("invalid jsx symbol %q: must not contain whitespace", e.Value)
}

// Unwrap returns ErrInvalidJSXSymbol for errors.Is() compatibility.
func (e *InvalidJSXSymbolError) Unwrap() error { return ErrInvalidJSXSymbol }

// String returns the string representation of the ServeHost.
func (h ServeHost) String() string { return string(h) }

// IsValid returns whether the ServeHost is valid.
// A valid value must be non-empty and not whitespace-only.
func (h ServeHost) IsValid() (bool, []error) {
	if strings.TrimSpace(string(h)) == "" {
		return false, []error{&InvalidServeHostError{Value: h}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServeHostError.
func (e *InvalidServeHostError) Error() string {
	return fmt.Sprintf("invalid serve host %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidServeHost for errors.Is() compatibility.
func (e *InvalidServeHostError) Unwrap() error { return ErrInvalidServeHost }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
			UserAgent:      "esmload",
			MaxSourceBytes: 10 << 20,
		},
		Transpile: TranspileConfig{
			JSXFactory:  "", // Will use the transpiler default if empty
			JSXFragment: "", // Will use the transpiler default if empty
		},
		Serve: ServeConfig{
			Host: "127.0.0.1",
			Port: 0, // Will auto-select a free port if zero
			Root: ".",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
