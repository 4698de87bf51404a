package decode

// Row is one decoded result record. Columns keep the order reported by the
// database. When a column name appears twice the first position is kept and
// the last value wins.
type Row struct {
	columns []string
	values  map[string]any
}

// NewRow returns an empty Row.
func NewRow() *Row {
	return &Row{values: map[string]any{}}
}

// Set stores the value for the column.
func (r *Row) Set(column string, value any) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the value of the column and whether the column is present.
func (r *Row) Get(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the column names in order.
func (r *Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Len returns the number of distinct columns in the row.
func (r *Row) Len() int {
	return len(r.columns)
}

// Map returns a copy of the row as a plain map.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// RowSet holds every row of a result in the order returned by the database.
type RowSet []*Row
