package domain

// ArtistType is the embedded artist classification (solo, band, ...).
type ArtistType struct {
	TypeName string `json:"type_name"`
}

// Artist is one row of the artists table with its type embedded.
type Artist struct {
	ArtistID    int         `json:"artist_id"`
	ArtistName  string      `json:"artist_name"`
	Type        *ArtistType `json:"types"`
	ImageURL    *string     `json:"artist_image_url"`
	SpotifyURL  *string     `json:"spotify_url"`
	SpotifyDesc *string     `json:"spotify_desc"`
}

// Genre is one row of the genres table.
type Genre struct {
	GenreID   int    `json:"genre_id"`
	GenreName string `json:"genre_name"`
}
