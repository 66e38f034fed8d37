// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"esmload-cli/internal/config"
	"esmload-cli/internal/issue"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the `esmload config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage esmload configuration",
		Long: `Manage esmload configuration.

Configuration is stored in:
  - Linux: ~/.config/esmload/config.cue
  - macOS: ~/Library/Application Support/esmload/config.cue
  - Windows: %APPDATA%\esmload\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{})
			if err != nil {
				return err
			}

			cueContent := config.GenerateCUE(cfg)
			fmt.Fprint(app.stdout, cueContent)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(app.stderr, rendered)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, headerStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	// Derive config file path from the standard config directory since the provider
	// does not cache resolved paths; each call derives from the standard config directory.
	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil && fileExistsCheck(cfgDir+"/config.cue") {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), cfgDir+"/config.cue")
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("http"))
	fmt.Fprintf(app.stdout, "  timeout_seconds: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.HTTP.TimeoutSeconds)))
	fmt.Fprintf(app.stdout, "  user_agent: %s\n", valueStyle.Render(cfg.HTTP.UserAgent.String()))
	fmt.Fprintf(app.stdout, "  max_source_bytes: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.HTTP.MaxSourceBytes)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("transpile"))
	fmt.Fprintf(app.stdout, "  jsx_factory: %s\n", renderOptionalValue(valueStyle, cfg.Transpile.JSXFactory.String()))
	fmt.Fprintf(app.stdout, "  jsx_fragment: %s\n", renderOptionalValue(valueStyle, cfg.Transpile.JSXFragment.String()))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("serve"))
	fmt.Fprintf(app.stdout, "  host: %s\n", valueStyle.Render(cfg.Serve.Host.String()))
	fmt.Fprintf(app.stdout, "  port: %s\n", valueStyle.Render(cfg.Serve.Port.String()))
	fmt.Fprintf(app.stdout, "  root: %s\n", valueStyle.Render(cfg.Serve.Root.String()))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

// renderOptionalValue renders a value that may legitimately be empty.
func renderOptionalValue(valueStyle lipgloss.Style, v string) string {
	if v == "" {
		return SubtitleStyle.Render("(transpiler default)")
	}
	return valueStyle.Render(v)
}

func initConfig(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s/config.cue\n", cfgDir)

	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
