// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newInfoCommand creates the `esmload info` command.
// It previews resolution and classification without fetching anything.
func newInfoCommand(app *App) *cobra.Command {
	var referrer string

	infoCmd := &cobra.Command{
		Use:   "info <specifier>",
		Short: "Preview how a specifier would resolve and classify",
		Long: `Preview a load without touching any origin: resolve the specifier
and classify the identity path by extension.

Network loads may still classify differently once the response's
Content-Type header arrives; info shows the extension-based view.

Examples:
  esmload info https://example.com/widget.tsx
  esmload info ./util.ts --referrer file:///srv/mods/main.ts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			ref, err := normalizeReferrer(referrer)
			if err != nil {
				renderServiceError(app.stderr, wrapPipelineError(err))
				return &ExitError{Code: 1, Err: err}
			}

			insp, err := app.Loads.Inspect(cmd.Context(), args[0], ref)
			if err != nil {
				renderServiceError(app.stderr, wrapPipelineError(err))
				return &ExitError{Code: 1, Err: err}
			}

			keyStyle := CmdStyle
			fmt.Fprintf(app.stdout, "%s %s\n", keyStyle.Render("identity:"), insp.Identity)
			fmt.Fprintf(app.stdout, "%s %s\n", keyStyle.Render("scheme:"), renderSchemeValue(insp.Scheme, insp.SchemeSupported))
			fmt.Fprintf(app.stdout, "%s %s\n", keyStyle.Render("media:"), insp.Media)
			fmt.Fprintf(app.stdout, "%s %v\n", keyStyle.Render("transpile:"), insp.Transpile)

			return nil
		},
	}

	infoCmd.Flags().StringVarP(&referrer, "referrer", "r", "", "absolute URL or filesystem path of the importing module")

	return infoCmd
}

// renderSchemeValue marks unsupported schemes so a later load failure is no
// surprise.
func renderSchemeValue(scheme string, supported bool) string {
	if supported {
		return SuccessStyle.Render(scheme)
	}
	return WarningStyle.Render(scheme + " (unsupported)")
}
