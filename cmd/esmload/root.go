// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"esmload-cli/internal/config"
	"esmload-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "esmload",
		Short: "A module resolution and loading pipeline for ES modules",
		Long: TitleStyle.Render("esmload") + SubtitleStyle.Render(" - A module resolution and loading pipeline for ES modules") + `

esmload resolves import specifiers into absolute module identities,
fetches their sources from the filesystem or over HTTP(S), classifies
the media type, enforces JSON import attributes, and transpiles
TypeScript and JSX down to plain JavaScript.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Resolve a specifier to see where it points
  2. Load it to get runtime-ready JavaScript
  3. Serve a local directory as a module origin

` + SubtitleStyle.Render("Examples:") + `
  esmload resolve ./util.ts --referrer file:///srv/mods/main.ts
  esmload load https://example.com/mod.ts
  esmload load file:///srv/data/config.json --with-type json
  esmload info https://example.com/widget.tsx
  esmload serve ./mods --port 8080
  esmload config show        Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/esmload/config.cue)")

	app, err := NewApp(Dependencies{})
	if err != nil {
		// NewApp with default dependencies cannot fail today; guard anyway.
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// Add subcommands
	rootCmd.AddCommand(newResolveCommand(app))
	rootCmd.AddCommand(newLoadCommand(app))
	rootCmd.AddCommand(newInfoCommand(app))
	rootCmd.AddCommand(newServeCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.Code
			if code.IsSuccess() {
				// A failed run must not report success.
				code = 1
			}
			os.Exit(int(code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
