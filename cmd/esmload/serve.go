// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"esmload-cli/internal/config"
	"esmload-cli/internal/modserver"

	"github.com/spf13/cobra"
)

// newServeCommand creates the `esmload serve` command.
// It serves a directory as a local module origin until interrupted.
func newServeCommand(app *App) *cobra.Command {
	var (
		host string
		port int
	)

	serveCmd := &cobra.Command{
		Use:   "serve [root]",
		Short: "Serve a directory as a local module origin",
		Long: `Serve a directory over HTTP as a module origin. Files are served
with content-types derived from the media classification table, so
modules loaded from the server classify the same way they would from
the filesystem.

The root defaults to the serve.root configuration value. Port 0
auto-selects a free port; the bound address is printed on startup.

Examples:
  esmload serve ./mods
  esmload serve ./mods --port 8080
  esmload serve --host 0.0.0.0 --port 8080 /srv/mods`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{})
			if err != nil {
				cfg = config.DefaultConfig()
			}

			srvCfg := modserver.Config{
				Host: cfg.Serve.Host.String(),
				Port: int(cfg.Serve.Port),
				Root: cfg.Serve.Root.String(),
			}
			if len(args) > 0 {
				srvCfg.Root = args[0]
			}
			if cmd.Flags().Changed("host") {
				srvCfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				srvCfg.Port = port
			}

			srv := modserver.New(srvCfg)
			if err := srv.Start(cmd.Context()); err != nil {
				renderServiceError(app.stderr, wrapServeError(err))
				return &ExitError{Code: 1, Err: err}
			}

			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Serving"), CmdStyle.Render(srv.URL()))
			fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("root:"), srvCfg.Root)
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("Press Ctrl+C to stop"))

			// Block until interrupted (fang cancels the context on SIGINT)
			// or the server fails on its own.
			select {
			case <-cmd.Context().Done():
				return srv.Stop()
			case err, ok := <-srv.Err():
				_ = srv.Stop()
				if ok && err != nil {
					renderServiceError(app.stderr, wrapServeError(err))
					return &ExitError{Code: 1, Err: err}
				}
				return nil
			}
		},
	}

	serveCmd.Flags().StringVar(&host, "host", "127.0.0.1", "interface address to bind")
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "TCP port to listen on (0 auto-selects)")

	return serveCmd
}
