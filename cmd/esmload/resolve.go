// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newResolveCommand creates the `esmload resolve` command.
// It resolves a specifier to an absolute module identity without fetching
// anything.
func newResolveCommand(app *App) *cobra.Command {
	var referrer string

	resolveCmd := &cobra.Command{
		Use:   "resolve <specifier>",
		Short: "Resolve a specifier to an absolute module identity",
		Long: `Resolve an import specifier to an absolute module identity.

Absolute URLs resolve to themselves, normalized. Specifiers prefixed
with /, ./ or ../ are joined against the referrer. Bare specifiers
(e.g. "lodash") fail: there is no package registry to consult.

The referrer may also be a local file or directory; it is converted to
a file URL before resolution.

Examples:
  esmload resolve https://example.com/mod.ts
  esmload resolve ./util.ts --referrer file:///srv/mods/main.ts
  esmload resolve ./util.ts --referrer ./mods
  esmload resolve ../lib/a.js --referrer https://example.com/app/main.js`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			ref, err := normalizeReferrer(referrer)
			if err != nil {
				renderServiceError(app.stderr, wrapPipelineError(err))
				return &ExitError{Code: 1, Err: err}
			}

			id, err := app.Loads.Resolve(cmd.Context(), args[0], ref)
			if err != nil {
				renderServiceError(app.stderr, wrapPipelineError(err))
				return &ExitError{Code: 1, Err: err}
			}

			fmt.Fprintln(app.stdout, id)
			return nil
		},
	}

	resolveCmd.Flags().StringVarP(&referrer, "referrer", "r", "", "absolute URL or filesystem path of the importing module")

	return resolveCmd
}
