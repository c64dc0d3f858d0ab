package sqlite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nullism/bqb"

	"github.com/ewilliams-labs/soundcheck/internal/core/query"
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkIdent(kind, name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}

// joinKey is the column shared by a parent row and an embedded table:
// "artists" joins on artist_id.
func joinKey(table string) string {
	return strings.TrimSuffix(table, "s") + "_id"
}

// compiler turns a query.Query into one SELECT whose single column is a
// JSON object per row, shaped like a PostgREST response item.
type compiler struct {
	joins []string
	// embeds maps first-level embed names to their aliases, for ordering.
	embeds map[string]string
}

func compile(q query.Query) (string, []any, error) {
	if err := checkIdent("table", q.Table); err != nil {
		return "", nil, err
	}
	if len(q.Fields) == 0 {
		return "", nil, fmt.Errorf("query on %q selects nothing", q.Table)
	}

	c := &compiler{embeds: map[string]string{}}
	projection, err := c.object(q.Table, q.Fields, true)
	if err != nil {
		return "", nil, err
	}

	sel := bqb.New(fmt.Sprintf("SELECT %s FROM %s AS %s", projection, q.Table, q.Table))
	for _, j := range c.joins {
		sel.Space(j)
	}

	where := bqb.Optional("WHERE")
	for _, f := range q.Filters {
		if err := checkIdent("column", f.Column); err != nil {
			return "", nil, err
		}
		switch f.Op {
		case query.OpEq:
			where.And(fmt.Sprintf("%s.%s = ?", q.Table, f.Column), f.Value)
		case query.OpILike:
			// LIKE is case-insensitive for ASCII in SQLite.
			where.And(fmt.Sprintf("%s.%s LIKE ?", q.Table, f.Column), f.Value)
		default:
			return "", nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}

	orderBy := bqb.Optional("ORDER BY")
	for _, o := range q.Orders {
		if err := checkIdent("column", o.Column); err != nil {
			return "", nil, err
		}
		alias := q.Table
		if o.ReferencedTable != "" {
			a, ok := c.embeds[o.ReferencedTable]
			if !ok {
				return "", nil, fmt.Errorf("order references %q, which is not embedded", o.ReferencedTable)
			}
			alias = a
		}
		dir := "ASC"
		if o.Direction == query.Desc {
			dir = "DESC"
		}
		orderBy.Comma(fmt.Sprintf("%s.%s %s NULLS LAST", alias, o.Column, dir))
	}

	// rowid last keeps ties, and unordered reads, in storage order
	orderBy.Comma(fmt.Sprintf("%s.rowid", q.Table))

	sel.Space("? ?", where, orderBy)
	if q.Limit > 0 {
		sel.Space("LIMIT ?", q.Limit)
	}
	return sel.ToSql()
}

// object renders json_object(...) for the fields of alias, registering a
// join for every embed.
func (c *compiler) object(alias string, fields []query.Field, root bool) (string, error) {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if err := checkIdent("column", f.Name); err != nil {
			return "", err
		}
		if !f.IsEmbed() {
			parts = append(parts, fmt.Sprintf("'%s', %s.%s", f.Name, alias, f.Name))
			continue
		}

		child := f.Name
		if !root {
			child = alias + "__" + f.Name
		} else {
			c.embeds[f.Name] = child
		}
		key := joinKey(f.Name)
		kind := "LEFT JOIN"
		if f.Inner {
			kind = "JOIN"
		}
		c.joins = append(c.joins, fmt.Sprintf("%s %s AS %s ON %s.%s = %s.%s", kind, f.Name, child, alias, key, child, key))

		inner, err := c.object(child, f.Fields, false)
		if err != nil {
			return "", err
		}
		if f.Inner {
			parts = append(parts, fmt.Sprintf("'%s', %s", f.Name, inner))
		} else {
			parts = append(parts, fmt.Sprintf("'%s', json(CASE WHEN %s.%s IS NULL THEN NULL ELSE %s END)", f.Name, child, key, inner))
		}
	}
	return "json_object(" + strings.Join(parts, ", ") + ")", nil
}
