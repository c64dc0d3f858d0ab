package domain

import (
	"strconv"
	"strings"
)

// Limits accepted by the mood endpoints.
const (
	MinLimit     = 1
	MaxLimit     = 20
	DefaultLimit = MaxLimit
)

// Mood names a ranked song list.
type Mood string

const (
	MoodDancing  Mood = "dancing"
	MoodHappy    Mood = "happy"
	MoodCoffee   Mood = "coffee"
	MoodStudying Mood = "studying"
)

// MoodStrategy says how a mood orders songs. Exactly one field is set:
// OrderColumn is sorted descending by the store, Ranking is computed here
// over the full song set.
type MoodStrategy struct {
	OrderColumn string
	Ranking     *Ranking[Song]
}

var moods = map[Mood]MoodStrategy{
	MoodDancing: {OrderColumn: "danceability"},
	MoodHappy:   {OrderColumn: "valence"},
	MoodCoffee: {Ranking: &Ranking[Song]{
		// liveness/acousticness is undefined for a zero or missing denominator
		Keep:      func(s Song) bool { return value(s.Acousticness) > 0 },
		Score:     func(s Song) float64 { return value(s.Liveness) / value(s.Acousticness) },
		Direction: Descending,
	}},
	MoodStudying: {Ranking: &Ranking[Song]{
		Score:     func(s Song) float64 { return value(s.Energy) * value(s.Speechiness) },
		Direction: Ascending,
	}},
}

// LookupMood returns the strategy for name, matched case-insensitively.
func LookupMood(name string) (MoodStrategy, bool) {
	s, ok := moods[Mood(strings.ToLower(name))]
	return s, ok
}

// ParseLimit reads a mood limit. Unlike id parameters it never fails:
// a missing, non-numeric, or out-of-range value becomes DefaultLimit.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < MinLimit || n > MaxLimit {
		return DefaultLimit
	}
	return n
}
