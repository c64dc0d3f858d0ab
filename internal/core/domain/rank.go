package domain

import (
	"cmp"
	"iter"
	"slices"
)

// Direction is the order in which ranked scores are returned.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// Ranking describes a derived score over rows of type T.
type Ranking[T any] struct {
	// Keep drops rows before scoring; nil keeps every row.
	Keep      func(T) bool
	Score     func(T) float64
	Direction Direction
}

// TopN ranks rows by r and yields at most n of them. Rows with equal scores
// keep the order they arrived in; there is no secondary key. Nothing is
// consumed from rows until the returned sequence is ranged over.
func TopN[T any](rows iter.Seq[T], n int, r Ranking[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}

		type scored struct {
			row   T
			score float64
		}
		var ranked []scored
		for row := range rows {
			if r.Keep != nil && !r.Keep(row) {
				continue
			}
			ranked = append(ranked, scored{row: row, score: r.Score(row)})
		}

		slices.SortStableFunc(ranked, func(a, b scored) int {
			if r.Direction == Ascending {
				return cmp.Compare(a.score, b.score)
			}
			return cmp.Compare(b.score, a.score)
		})

		for i, s := range ranked {
			if i == n || !yield(s.row) {
				return
			}
		}
	}
}
