package domain

import (
	"errors"
	"math"
	"testing"
)

func TestAverageFeatures(t *testing.T) {
	tests := []struct {
		name     string
		rows     []Features
		expected ArtistAverages
		wantErr  error
	}{
		{
			name:    "no songs is not found",
			rows:    []Features{},
			wantErr: ErrNotFound,
		},
		{
			name: "averages two songs",
			rows: []Features{
				{BPM: Float(120), Energy: Float(0.5), Danceability: Float(0.4), Loudness: Float(-6), Liveness: Float(0.1),
					Valence: Float(0.3), Duration: Float(200), Acousticness: Float(0.2), Speechiness: Float(0.05), Popularity: Float(70)},
				{BPM: Float(130), Energy: Float(0.7), Danceability: Float(0.6), Loudness: Float(-4), Liveness: Float(0.3),
					Valence: Float(0.5), Duration: Float(240), Acousticness: Float(0.4), Speechiness: Float(0.07), Popularity: Float(80)},
			},
			expected: ArtistAverages{
				ArtistID: 129, SongCount: 2,
				BPM: 125, Energy: 0.6, Danceability: 0.5, Loudness: -5, Liveness: 0.2,
				Valence: 0.4, Duration: 220, Acousticness: 0.3, Speechiness: 0.06, Popularity: 75,
			},
		},
		{
			name: "missing values count as zero",
			rows: []Features{
				{BPM: Float(100), Energy: Float(0.9)},
				{BPM: nil, Energy: Float(0.3)},
				{BPM: Float(101)},
			},
			expected: ArtistAverages{ArtistID: 129, SongCount: 3, BPM: 67, Energy: 0.4},
		},
		{
			name: "rounds to two decimals",
			rows: []Features{
				{Energy: Float(0.1)},
				{Energy: Float(0.2)},
				{Energy: Float(0.2)},
			},
			expected: ArtistAverages{ArtistID: 129, SongCount: 3, Energy: 0.17},
		},
		{
			name: "negative halves round away from zero",
			rows: []Features{
				{Loudness: Float(-5)},
				{Loudness: Float(-5.25)},
			},
			expected: ArtistAverages{ArtistID: 129, SongCount: 2, Loudness: -5.13},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AverageFeatures(129, tc.rows)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				if err.Error() != "No songs found for artist ID 129." {
					t.Fatalf("unexpected message %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ArtistID != tc.expected.ArtistID || got.SongCount != tc.expected.SongCount {
				t.Fatalf("identity: got %d/%d, want %d/%d", got.ArtistID, got.SongCount, tc.expected.ArtistID, tc.expected.SongCount)
			}
			if !averagesEqual(got, tc.expected, 1e-9) {
				t.Fatalf("expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{in: 1.234, want: 1.23},
		{in: 1.235, want: 1.24},
		{in: 2.5, want: 2.5},
		{in: -1.125, want: -1.13},
		{in: -5.125, want: -5.13},
		{in: 0, want: 0},
	}
	for _, tc := range tests {
		if got := Round2(tc.in); !floatEquals(got, tc.want, 1e-9) {
			t.Errorf("Round2(%v): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func averagesEqual(a, b ArtistAverages, tol float64) bool {
	return floatEquals(a.BPM, b.BPM, tol) &&
		floatEquals(a.Energy, b.Energy, tol) &&
		floatEquals(a.Danceability, b.Danceability, tol) &&
		floatEquals(a.Loudness, b.Loudness, tol) &&
		floatEquals(a.Liveness, b.Liveness, tol) &&
		floatEquals(a.Valence, b.Valence, tol) &&
		floatEquals(a.Duration, b.Duration, tol) &&
		floatEquals(a.Acousticness, b.Acousticness, tol) &&
		floatEquals(a.Speechiness, b.Speechiness, tol) &&
		floatEquals(a.Popularity, b.Popularity, tol)
}

func floatEquals(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
