package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// SortField is the column a sort key orders songs by. ReferencedTable is set
// when the column lives on a joined table; the song rows are still the ones
// being ordered.
type SortField struct {
	Column          string
	ReferencedTable string
}

// SortKeys lists the accepted sort keys in the order they are reported.
var SortKeys = []string{"id", "title", "artist", "genre", "year", "duration"}

var sortFields = map[string]SortField{
	"id":       {Column: "song_id"},
	"title":    {Column: "title"},
	"artist":   {Column: "artist_name", ReferencedTable: "artists"},
	"genre":    {Column: "genre_name", ReferencedTable: "genres"},
	"year":     {Column: "year"},
	"duration": {Column: "duration"},
}

// ResolveSortField maps a sort key to its column. Unknown keys fail closed.
func ResolveSortField(key string) (SortField, error) {
	// a Caser is stateful, so each call folds with its own
	if f, ok := sortFields[cases.Fold().String(key)]; ok {
		return f, nil
	}
	return SortField{}, &InvalidInputError{
		Message: fmt.Sprintf("Invalid sort field. Valid options: %s.", strings.Join(SortKeys, ", ")),
	}
}
