package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Dataset is a full catalog snapshot as read by LoadDataset. JSON input
// works too, being valid YAML.
type Dataset struct {
	Types     []TypeRecord     `yaml:"types"`
	Artists   []ArtistRecord   `yaml:"artists"`
	Genres    []GenreRecord    `yaml:"genres"`
	Songs     []SongRecord     `yaml:"songs"`
	Playlists []PlaylistRecord `yaml:"playlists"`
}

// TypeRecord is one artist type, such as solo or band.
type TypeRecord struct {
	ID   int    `yaml:"type_id"`
	Name string `yaml:"type_name"`
}

// ArtistRecord is one artist. Nil fields are stored as NULL.
type ArtistRecord struct {
	ID          int     `yaml:"artist_id"`
	Name        string  `yaml:"artist_name"`
	TypeID      *int    `yaml:"type_id"`
	ImageURL    *string `yaml:"artist_image_url"`
	SpotifyURL  *string `yaml:"spotify_url"`
	SpotifyDesc *string `yaml:"spotify_desc"`
}

// GenreRecord is one genre.
type GenreRecord struct {
	ID   int    `yaml:"genre_id"`
	Name string `yaml:"genre_name"`
}

// SongRecord is one song with its artist and genre ids and audio
// features. Nil fields are stored as NULL.
type SongRecord struct {
	ID       int    `yaml:"song_id"`
	Title    string `yaml:"title"`
	Year     *int   `yaml:"year"`
	ArtistID *int   `yaml:"artist_id"`
	GenreID  *int   `yaml:"genre_id"`

	BPM          *float64 `yaml:"bpm"`
	Energy       *float64 `yaml:"energy"`
	Danceability *float64 `yaml:"danceability"`
	Loudness     *float64 `yaml:"loudness"`
	Liveness     *float64 `yaml:"liveness"`
	Valence      *float64 `yaml:"valence"`
	Duration     *float64 `yaml:"duration"`
	Acousticness *float64 `yaml:"acousticness"`
	Speechiness  *float64 `yaml:"speechiness"`
	Popularity   *float64 `yaml:"popularity"`
}

// PlaylistRecord lists a playlist's songs in order.
type PlaylistRecord struct {
	ID      int   `yaml:"playlist_id"`
	SongIDs []int `yaml:"song_ids"`
}

// LoadDataset decodes a dataset, rejecting unknown keys.
func LoadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, nil
		}
		return Dataset{}, fmt.Errorf("sqlite: decode dataset: %w", err)
	}
	return ds, nil
}

// Seed upserts ds in one transaction. Playlist memberships are replaced
// wholesale for every playlist present in ds.
func (a *Adapter) Seed(ctx context.Context, ds Dataset) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin seed: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		name string
		stmt string
		rows int
		args func(i int) []any
	}{
		{
			name: "type",
			stmt: `INSERT INTO types (type_id, type_name) VALUES (?, ?)
				ON CONFLICT(type_id) DO UPDATE SET type_name = excluded.type_name`,
			rows: len(ds.Types),
			args: func(i int) []any {
				t := ds.Types[i]
				return []any{t.ID, t.Name}
			},
		},
		{
			name: "artist",
			stmt: `INSERT INTO artists (artist_id, artist_name, type_id, artist_image_url, spotify_url, spotify_desc)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(artist_id) DO UPDATE SET
					artist_name = excluded.artist_name,
					type_id = excluded.type_id,
					artist_image_url = excluded.artist_image_url,
					spotify_url = excluded.spotify_url,
					spotify_desc = excluded.spotify_desc`,
			rows: len(ds.Artists),
			args: func(i int) []any {
				ar := ds.Artists[i]
				return []any{ar.ID, ar.Name, ar.TypeID, ar.ImageURL, ar.SpotifyURL, ar.SpotifyDesc}
			},
		},
		{
			name: "genre",
			stmt: `INSERT INTO genres (genre_id, genre_name) VALUES (?, ?)
				ON CONFLICT(genre_id) DO UPDATE SET genre_name = excluded.genre_name`,
			rows: len(ds.Genres),
			args: func(i int) []any {
				g := ds.Genres[i]
				return []any{g.ID, g.Name}
			},
		},
		{
			name: "song",
			stmt: `INSERT INTO songs (
					song_id, title, year, artist_id, genre_id,
					bpm, energy, danceability, loudness, liveness,
					valence, duration, acousticness, speechiness, popularity
				)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(song_id) DO UPDATE SET
					title = excluded.title,
					year = excluded.year,
					artist_id = excluded.artist_id,
					genre_id = excluded.genre_id,
					bpm = excluded.bpm,
					energy = excluded.energy,
					danceability = excluded.danceability,
					loudness = excluded.loudness,
					liveness = excluded.liveness,
					valence = excluded.valence,
					duration = excluded.duration,
					acousticness = excluded.acousticness,
					speechiness = excluded.speechiness,
					popularity = excluded.popularity`,
			rows: len(ds.Songs),
			args: func(i int) []any {
				s := ds.Songs[i]
				return []any{
					s.ID, s.Title, s.Year, s.ArtistID, s.GenreID,
					s.BPM, s.Energy, s.Danceability, s.Loudness, s.Liveness,
					s.Valence, s.Duration, s.Acousticness, s.Speechiness, s.Popularity,
				}
			},
		},
	}

	for _, step := range steps {
		if err := execEach(ctx, tx, step.stmt, step.rows, step.args); err != nil {
			return fmt.Errorf("sqlite: seed %s: %w", step.name, err)
		}
	}

	if err := seedPlaylists(ctx, tx, ds.Playlists); err != nil {
		return fmt.Errorf("sqlite: seed playlist: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit seed: %w", err)
	}
	return nil
}

type execer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execEach(ctx context.Context, tx execer, stmt string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return err
	}
	defer prepared.Close()

	for i := 0; i < n; i++ {
		if _, err := prepared.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

func seedPlaylists(ctx context.Context, tx execer, playlists []PlaylistRecord) error {
	for _, p := range playlists {
		if _, err := tx.ExecContext(ctx, "DELETE FROM playlists WHERE playlist_id = ?", p.ID); err != nil {
			return fmt.Errorf("clear %d: %w", p.ID, err)
		}
		err := execEach(ctx, tx, `INSERT INTO playlists (playlist_id, song_id) VALUES (?, ?)
			ON CONFLICT(playlist_id, song_id) DO NOTHING`, len(p.SongIDs), func(i int) []any {
			return []any{p.ID, p.SongIDs[i]}
		})
		if err != nil {
			return fmt.Errorf("link %d: %w", p.ID, err)
		}
	}
	return nil
}
