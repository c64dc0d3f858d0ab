package domain

// Features holds the ten numeric audio attributes of a song.
// Any of them may be absent in the store.
type Features struct {
	BPM          *float64 `json:"bpm"`
	Energy       *float64 `json:"energy"`
	Danceability *float64 `json:"danceability"`
	Loudness     *float64 `json:"loudness"`
	Liveness     *float64 `json:"liveness"`
	Valence      *float64 `json:"valence"`
	Duration     *float64 `json:"duration"`
	Acousticness *float64 `json:"acousticness"`
	Speechiness  *float64 `json:"speechiness"`
	Popularity   *float64 `json:"popularity"`
}

// SongArtist is the artist projection embedded in a song row.
type SongArtist struct {
	ArtistID   int    `json:"artist_id"`
	ArtistName string `json:"artist_name"`
}

// Song is one row of the songs table joined to its artist and genre.
type Song struct {
	SongID int    `json:"song_id"`
	Title  string `json:"title"`
	Year   *int   `json:"year"`
	Features
	Artist SongArtist `json:"artists"`
	Genre  Genre      `json:"genres"`
}

// value reads an optional attribute, treating absence as zero.
func value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Float returns a pointer to v, for building feature sets.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
