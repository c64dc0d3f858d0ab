// Package sqlite provides a SQLite-backed implementation of the query client
// port, used for local development, tests and offline catalogs.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ewilliams-labs/soundcheck/internal/core/ports"
	"github.com/ewilliams-labs/soundcheck/internal/core/query"
	"github.com/ewilliams-labs/soundcheck/internal/metrics"
)

const backendName = "sqlite"

// Adapter runs catalog queries against a SQLite database.
type Adapter struct {
	db *sql.DB
}

var _ ports.QueryClient = (*Adapter)(nil)

// NewAdapter opens the database at path and migrates the schema.
func NewAdapter(path string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// Each connection to :memory: is its own database.
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	a := &Adapter{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return a, nil
}

// Close releases the database handle.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Execute compiles q to SQL, runs it and decodes the rows into dst as a
// JSON array, the same shape the PostgREST backend returns.
func (a *Adapter) Execute(ctx context.Context, q query.Query, dst any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQuery(backendName, q.Table, time.Since(start), err)
	}()

	stmt, args, err := compile(q)
	if err != nil {
		return fmt.Errorf("sqlite: compile %s: %w", q.Table, err)
	}

	rows, err := a.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return a.wrap(ctx, err)
	}
	defer rows.Close()

	var buf bytes.Buffer
	buf.WriteByte('[')
	for n := 0; rows.Next(); n++ {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return a.wrap(ctx, err)
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(doc)
	}
	if err := rows.Err(); err != nil {
		return a.wrap(ctx, err)
	}
	buf.WriteByte(']')

	if err := json.Unmarshal(buf.Bytes(), dst); err != nil {
		return fmt.Errorf("sqlite: decode %s: %w", q.Table, err)
	}
	return nil
}

// wrap reports database failures as store errors, leaving cancellation
// recognizable to callers.
func (a *Adapter) wrap(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("sqlite: %w", ctxErr)
	}
	return fmt.Errorf("sqlite: %w", &ports.StoreError{Message: err.Error(), Err: err})
}

func (a *Adapter) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS types (
		type_id INTEGER PRIMARY KEY,
		type_name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS artists (
		artist_id INTEGER PRIMARY KEY,
		artist_name TEXT NOT NULL,
		type_id INTEGER REFERENCES types(type_id),
		artist_image_url TEXT,
		spotify_url TEXT,
		spotify_desc TEXT
	);

	CREATE TABLE IF NOT EXISTS genres (
		genre_id INTEGER PRIMARY KEY,
		genre_name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS songs (
		song_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		year INTEGER,
		artist_id INTEGER REFERENCES artists(artist_id),
		genre_id INTEGER REFERENCES genres(genre_id),
		bpm REAL,
		energy REAL,
		danceability REAL,
		loudness REAL,
		liveness REAL,
		valence REAL,
		duration REAL,
		acousticness REAL,
		speechiness REAL,
		popularity REAL
	);

	CREATE TABLE IF NOT EXISTS playlists (
		playlist_id INTEGER NOT NULL,
		song_id INTEGER NOT NULL REFERENCES songs(song_id) ON DELETE CASCADE,
		PRIMARY KEY (playlist_id, song_id)
	);

	CREATE INDEX IF NOT EXISTS idx_songs_artist ON songs(artist_id);
	CREATE INDEX IF NOT EXISTS idx_songs_genre ON songs(genre_id);
	CREATE INDEX IF NOT EXISTS idx_songs_year ON songs(year);
	`
	_, err := a.db.Exec(schema)
	return err
}
