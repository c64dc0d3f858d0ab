package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/ewilliams-labs/soundcheck/internal/core/domain"
	"github.com/ewilliams-labs/soundcheck/internal/core/ports"
	"github.com/ewilliams-labs/soundcheck/internal/core/query"
)

// Selections shared by the catalog reads. Keys in the decoded JSON follow
// the store's column names.
var (
	artistSelect = query.MustParseSelect(`
		artist_id, artist_name, types(type_name),
		artist_image_url, spotify_url, spotify_desc`)

	genreSelect = query.MustParseSelect("genre_id, genre_name")

	songSelect = query.MustParseSelect(`
		song_id, title, year, bpm, energy, danceability, loudness, liveness,
		valence, duration, acousticness, speechiness, popularity,
		artists!inner(artist_id, artist_name),
		genres!inner(genre_id, genre_name)`)

	featureSelect = query.MustParseSelect(`
		bpm, energy, danceability, loudness, liveness,
		valence, duration, acousticness, speechiness, popularity`)

	playlistSelect = query.MustParseSelect(`
		playlist_id,
		songs!inner(song_id, title, year, artists!inner(artist_name), genres!inner(genre_name))`)
)

// Catalog answers the read-only catalog questions, one method per route.
// Empty results come back as *domain.NotFoundError carrying the message
// clients see.
type Catalog struct {
	store ports.QueryClient
}

// NewCatalog constructs a Catalog.
func NewCatalog(store ports.QueryClient) *Catalog {
	return &Catalog{store: store}
}

// fetch runs q and fails with notFound when it matches nothing.
func fetch[T any](ctx context.Context, store ports.QueryClient, q query.Query, notFound string) ([]T, error) {
	var rows []T
	if err := store.Execute(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("service: query %s: %w", q.Table, err)
	}
	if len(rows) == 0 {
		return nil, &domain.NotFoundError{Message: notFound}
	}
	return rows, nil
}

func (c *Catalog) songs() query.Query {
	return query.From("songs").Select(songSelect)
}

// ListArtists returns every artist ordered by name.
func (c *Catalog) ListArtists(ctx context.Context) ([]domain.Artist, error) {
	q := query.From("artists").Select(artistSelect).OrderBy("artist_name", query.Asc)
	return fetch[domain.Artist](ctx, c.store, q, "No artists found.")
}

// GetArtist returns one artist.
func (c *Catalog) GetArtist(ctx context.Context, artistID int) (domain.Artist, error) {
	q := query.From("artists").Select(artistSelect).Eq("artist_id", artistID)
	rows, err := fetch[domain.Artist](ctx, c.store, q, fmt.Sprintf("No artist found with ID %d.", artistID))
	if err != nil {
		return domain.Artist{}, err
	}
	return rows[0], nil
}

// ArtistAverages averages the audio features of an artist's songs.
func (c *Catalog) ArtistAverages(ctx context.Context, artistID int) (domain.ArtistAverages, error) {
	q := query.From("songs").Select(featureSelect).Eq("artist_id", artistID)

	var rows []domain.Features
	if err := c.store.Execute(ctx, q, &rows); err != nil {
		return domain.ArtistAverages{}, fmt.Errorf("service: query songs: %w", err)
	}
	return domain.AverageFeatures(artistID, rows)
}

// ListGenres returns every genre ordered by id.
func (c *Catalog) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	q := query.From("genres").Select(genreSelect).OrderBy("genre_id", query.Asc)
	return fetch[domain.Genre](ctx, c.store, q, "No genres found.")
}

// ListSongs returns every song ordered by title.
func (c *Catalog) ListSongs(ctx context.Context) ([]domain.Song, error) {
	return fetch[domain.Song](ctx, c.store, c.songs().OrderBy("title", query.Asc), "No songs found.")
}

// SortSongs returns every song ordered ascending by the field behind key.
// An unknown key fails before the store is queried.
func (c *Catalog) SortSongs(ctx context.Context, key string) ([]domain.Song, error) {
	field, err := domain.ResolveSortField(key)
	if err != nil {
		return nil, err
	}

	var opts []query.OrderOption
	if field.ReferencedTable != "" {
		opts = append(opts, query.Referenced(field.ReferencedTable))
	}
	q := c.songs().OrderBy(field.Column, query.Asc, opts...)
	return fetch[domain.Song](ctx, c.store, q, "No songs found.")
}

// SearchSongsBegin finds songs whose title starts with prefix, ignoring case.
func (c *Catalog) SearchSongsBegin(ctx context.Context, prefix string) ([]domain.Song, error) {
	q := c.songs().ILike("title", prefix+"%").OrderBy("title", query.Asc)
	return fetch[domain.Song](ctx, c.store, q,
		fmt.Sprintf("No songs found with title beginning with \"%s\".", prefix))
}

// SearchSongsAny finds songs whose title contains substr, ignoring case.
func (c *Catalog) SearchSongsAny(ctx context.Context, substr string) ([]domain.Song, error) {
	q := c.songs().ILike("title", "%"+substr+"%").OrderBy("title", query.Asc)
	return fetch[domain.Song](ctx, c.store, q,
		fmt.Sprintf("No songs found containing \"%s\" in title.", substr))
}

// SongsByYear returns the songs released in year, by title.
func (c *Catalog) SongsByYear(ctx context.Context, year int) ([]domain.Song, error) {
	q := c.songs().Eq("year", year).OrderBy("title", query.Asc)
	return fetch[domain.Song](ctx, c.store, q, fmt.Sprintf("No songs found for year %d.", year))
}

// SongsByArtist returns an artist's songs, by title.
func (c *Catalog) SongsByArtist(ctx context.Context, artistID int) ([]domain.Song, error) {
	q := c.songs().Eq("artist_id", artistID).OrderBy("title", query.Asc)
	return fetch[domain.Song](ctx, c.store, q, fmt.Sprintf("No songs found for artist ID %d.", artistID))
}

// SongsByGenre returns a genre's songs, by title.
func (c *Catalog) SongsByGenre(ctx context.Context, genreID int) ([]domain.Song, error) {
	q := c.songs().Eq("genre_id", genreID).OrderBy("title", query.Asc)
	return fetch[domain.Song](ctx, c.store, q, fmt.Sprintf("No songs found for genre ID %d.", genreID))
}

// GetSong returns one song.
func (c *Catalog) GetSong(ctx context.Context, songID int) (domain.Song, error) {
	rows, err := fetch[domain.Song](ctx, c.store, c.songs().Eq("song_id", songID),
		fmt.Sprintf("No song found with ID %d.", songID))
	if err != nil {
		return domain.Song{}, err
	}
	return rows[0], nil
}

// GetPlaylist returns a playlist's songs as flat entries in store order.
func (c *Catalog) GetPlaylist(ctx context.Context, playlistID int) ([]domain.PlaylistEntry, error) {
	q := query.From("playlists").Select(playlistSelect).Eq("playlist_id", playlistID)

	var rows []domain.PlaylistRow
	if err := c.store.Execute(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("service: query playlists: %w", err)
	}
	return domain.FlattenPlaylist(playlistID, rows)
}

// MoodSongs returns up to limit songs ranked for mood. The boolean is false
// for an unknown mood. The result is not-found only when the catalog has no
// songs; a ranking that keeps nothing yields an empty list.
func (c *Catalog) MoodSongs(ctx context.Context, mood string, limit int) ([]domain.Song, bool, error) {
	strategy, ok := domain.LookupMood(mood)
	if !ok {
		return nil, false, nil
	}

	if strategy.Ranking == nil {
		q := c.songs().OrderBy(strategy.OrderColumn, query.Desc).WithLimit(limit)
		rows, err := fetch[domain.Song](ctx, c.store, q, "No songs found.")
		return rows, true, err
	}

	rows, err := fetch[domain.Song](ctx, c.store, c.songs(), "No songs found.")
	if err != nil {
		return nil, true, err
	}
	ranked := slices.Collect(domain.TopN(slices.Values(rows), limit, *strategy.Ranking))
	if ranked == nil {
		ranked = []domain.Song{}
	}
	return ranked, true, nil
}
