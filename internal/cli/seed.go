package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/soundcheck/internal/adapters/sqlite"
	"github.com/ewilliams-labs/soundcheck/internal/config"
	"github.com/ewilliams-labs/soundcheck/internal/logging"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	File   string
	DBPath string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML dataset into a SQLite catalog",
		Long: `Load types, artists, genres, songs, and playlists from a YAML file
into a SQLite catalog, creating the schema if needed.

Rows are upserted by id. Each playlist in the file replaces that playlist's
membership. When --db is omitted the store.sqlite_path setting is used.`,
		Example:       `  soundcheck seed --file catalog.yaml --db catalog.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "YAML dataset to load (required)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database path")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSeed(ctx context.Context, opts *SeedOptions) error {
	dbPath := opts.DBPath
	if dbPath == "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = cfg.Store.SQLitePath
	}

	f, err := os.Open(opts.File)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := sqlite.LoadDataset(f)
	if err != nil {
		return err
	}

	adapter, err := sqlite.NewAdapter(dbPath)
	if err != nil {
		return err
	}
	defer adapter.Close()

	if err := adapter.Seed(ctx, ds); err != nil {
		return err
	}

	logging.Info().
		Str("db", dbPath).
		Int("types", len(ds.Types)).
		Int("artists", len(ds.Artists)).
		Int("genres", len(ds.Genres)).
		Int("songs", len(ds.Songs)).
		Int("playlists", len(ds.Playlists)).
		Msg("dataset seeded")
	return nil
}
