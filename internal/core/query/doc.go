// Package query describes reads against the catalog store independently of
// the backend that runs them: which table, which columns and embedded
// relations, which equality and pattern filters, which order, how many rows.
//
// Selections use PostgREST's select syntax, for example
//
//	song_id, title, artists!inner(artist_id, artist_name)
//
// where "name(...)" embeds the related table and "!inner" drops parent rows
// that have no match.
package query
