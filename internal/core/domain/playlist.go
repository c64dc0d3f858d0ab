package domain

import "fmt"

// PlaylistSong is the song projection embedded in a playlist row.
type PlaylistSong struct {
	SongID int    `json:"song_id"`
	Title  string `json:"title"`
	Year   *int   `json:"year"`
	Artist struct {
		ArtistName string `json:"artist_name"`
	} `json:"artists"`
	Genre struct {
		GenreName string `json:"genre_name"`
	} `json:"genres"`
}

// PlaylistRow is one playlist membership joined through to its song.
type PlaylistRow struct {
	PlaylistID int          `json:"playlist_id"`
	Song       PlaylistSong `json:"songs"`
}

// PlaylistEntry is the flat view of a PlaylistRow.
type PlaylistEntry struct {
	PlaylistID int    `json:"playlist_id"`
	SongID     int    `json:"song_id"`
	Title      string `json:"title"`
	ArtistName string `json:"artist_name"`
	GenreName  string `json:"genre_name"`
	Year       *int   `json:"year"`
}

// FlattenPlaylist projects joined rows into entries, keeping row order.
// A playlist without songs cannot be told apart from a missing playlist,
// so both are reported as not found.
func FlattenPlaylist(playlistID int, rows []PlaylistRow) ([]PlaylistEntry, error) {
	if len(rows) == 0 {
		return nil, &NotFoundError{Message: fmt.Sprintf("No playlist found with ID %d.", playlistID)}
	}

	entries := make([]PlaylistEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, PlaylistEntry{
			PlaylistID: r.PlaylistID,
			SongID:     r.Song.SongID,
			Title:      r.Song.Title,
			ArtistName: r.Song.Artist.ArtistName,
			GenreName:  r.Song.Genre.GenreName,
			Year:       r.Song.Year,
		})
	}
	return entries, nil
}
