package cli

import (
	"io"

	"github.com/rpggio/pantry/internal/config"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command for the pantry CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Track food by the date it must be eaten by",
		Long: `pantry groups ingredients into meals and meals into sections by eat-by
date. Run "pantry serve" to expose the pantry to MCP clients, or use the
other commands to inspect and edit it directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file (default $PANTRY_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSectionsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewAddMealCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewActivityCommand(opts))

	return cmd
}

// open starts an app for a command that logs to stderr.
func open(cmd *cobra.Command, opts *RootOptions) (*app, error) {
	return openApp(cmd.Context(), opts, func(config.Config) io.Writer {
		return cmd.ErrOrStderr()
	})
}
