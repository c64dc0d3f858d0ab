package query

import "slices"

// Op is a filter operator.
type Op string

const (
	OpEq    Op = "eq"
	OpILike Op = "ilike"
)

// Filter restricts rows on a column of the queried table.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Order sorts the queried rows. When ReferencedTable is set, Column belongs
// to that embedded relation. Missing values always sort last.
type Order struct {
	Column          string
	ReferencedTable string
	Direction       Direction
}

// OrderOption adjusts an Order.
type OrderOption func(*Order)

// Referenced sorts by a column of the embedded table instead of the queried one.
func Referenced(table string) OrderOption {
	return func(o *Order) { o.ReferencedTable = table }
}

// Query is an immutable read description. Builder methods return copies.
type Query struct {
	Table   string
	Fields  []Field
	Filters []Filter
	Orders  []Order
	// Limit caps the number of rows; zero means no cap.
	Limit int
}

// From starts a query on table.
func From(table string) Query {
	return Query{Table: table}
}

// Select sets the projection.
func (q Query) Select(fields []Field) Query {
	q.Fields = fields
	return q
}

// Eq keeps rows where column equals v.
func (q Query) Eq(column string, v any) Query {
	q.Filters = append(slices.Clip(q.Filters), Filter{Column: column, Op: OpEq, Value: v})
	return q
}

// ILike keeps rows where column matches the case-insensitive pattern,
// with % as the wildcard.
func (q Query) ILike(column, pattern string) Query {
	q.Filters = append(slices.Clip(q.Filters), Filter{Column: column, Op: OpILike, Value: pattern})
	return q
}

// OrderBy appends a sort key.
func (q Query) OrderBy(column string, dir Direction, opts ...OrderOption) Query {
	o := Order{Column: column, Direction: dir}
	for _, opt := range opts {
		opt(&o)
	}
	q.Orders = append(slices.Clip(q.Orders), o)
	return q
}

// WithLimit caps the number of rows returned.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}
