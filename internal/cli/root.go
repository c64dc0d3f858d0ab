// Package cli wires configuration, logging, the catalog backend, and the
// HTTP API into the soundcheck command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the soundcheck root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "soundcheck",
		Short: "Soundcheck music catalog API",
		Long: `Soundcheck serves a read-only JSON API over a music catalog of
artists, genres, songs, and playlists.

The catalog lives either behind a hosted PostgREST endpoint or in a local
SQLite file that the seed command can populate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file (default: $CONFIG_PATH or ./config.yaml)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}
