package domain

import (
	"fmt"
	"math"
)

// ArtistAverages is the mean of every audio attribute across one artist's songs.
type ArtistAverages struct {
	ArtistID     int     `json:"artist_id"`
	SongCount    int     `json:"song_count"`
	BPM          float64 `json:"bpm"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Loudness     float64 `json:"loudness"`
	Liveness     float64 `json:"liveness"`
	Valence      float64 `json:"valence"`
	Duration     float64 `json:"duration"`
	Acousticness float64 `json:"acousticness"`
	Speechiness  float64 `json:"speechiness"`
	Popularity   float64 `json:"popularity"`
}

// AverageFeatures averages rows that all belong to artistID. Missing values
// count as zero and every mean is rounded half up to two decimal places.
// An empty row set is a not-found, never a zero average.
func AverageFeatures(artistID int, rows []Features) (ArtistAverages, error) {
	if len(rows) == 0 {
		return ArtistAverages{}, &NotFoundError{Message: fmt.Sprintf("No songs found for artist ID %d.", artistID)}
	}

	var sum ArtistAverages
	for _, r := range rows {
		sum.BPM += value(r.BPM)
		sum.Energy += value(r.Energy)
		sum.Danceability += value(r.Danceability)
		sum.Loudness += value(r.Loudness)
		sum.Liveness += value(r.Liveness)
		sum.Valence += value(r.Valence)
		sum.Duration += value(r.Duration)
		sum.Acousticness += value(r.Acousticness)
		sum.Speechiness += value(r.Speechiness)
		sum.Popularity += value(r.Popularity)
	}

	n := float64(len(rows))
	mean := func(total float64) float64 { return Round2(total / n) }

	return ArtistAverages{
		ArtistID:     artistID,
		SongCount:    len(rows),
		BPM:          mean(sum.BPM),
		Energy:       mean(sum.Energy),
		Danceability: mean(sum.Danceability),
		Loudness:     mean(sum.Loudness),
		Liveness:     mean(sum.Liveness),
		Valence:      mean(sum.Valence),
		Duration:     mean(sum.Duration),
		Acousticness: mean(sum.Acousticness),
		Speechiness:  mean(sum.Speechiness),
		Popularity:   mean(sum.Popularity),
	}, nil
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
