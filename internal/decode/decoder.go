package decode

import (
	"database/sql"

	"github.com/pkg/errors"
)

// Column describes a result column.
type Column struct {
	Name string
	// DatabaseType is the engine type name reported by the driver, e.g.
	// "BIGINT". It may be empty.
	DatabaseType string
}

// Rows is the part of *sql.Rows used by the decoder.
type Rows interface {
	ColumnTypes() ([]*sql.ColumnType, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// ColumnError is returned when a column value cannot be decoded.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return "cannot decode column " + e.Column + ": " + e.Err.Error()
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

// Decoder decodes result rows using the rule registered for each column's
// engine type.
type Decoder struct {
	columns []Column
	rules   []Rule
}

// NewDecoder returns a decoder for rows with the given columns.
func NewDecoder(columns []Column) *Decoder {
	d := &Decoder{columns: columns, rules: make([]Rule, len(columns))}
	for i, c := range columns {
		d.rules[i] = RuleFor(c.DatabaseType)
	}
	return d
}

// Columns reads the column metadata of rows.
func Columns(rows Rows) ([]Column, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrap(err, "cannot read column types")
	}
	cols := make([]Column, len(types))
	for i, ct := range types {
		cols[i] = Column{Name: ct.Name(), DatabaseType: ct.DatabaseTypeName()}
	}
	return cols, nil
}

// Columns returns the columns the decoder was built for.
func (d *Decoder) Columns() []Column {
	return d.columns
}

// Decode applies the column rules to one row of raw values.
func (d *Decoder) Decode(raw []any) (*Row, error) {
	if len(raw) != len(d.columns) {
		return nil, errors.Errorf("internal error: have %d values for %d columns", len(raw), len(d.columns))
	}
	row := NewRow()
	for i, v := range raw {
		dv, err := d.rules[i](v)
		if err != nil {
			return nil, &ColumnError{Column: d.columns[i].Name, Err: err}
		}
		row.Set(d.columns[i].Name, dv)
	}
	return row, nil
}

// Scan reads the current row of rows and decodes it.
func (d *Decoder) Scan(rows Rows) (*Row, error) {
	raw, err := d.scan(rows)
	if err != nil {
		return nil, err
	}
	return d.Decode(raw)
}

// ScanFirst reads the current row of rows and decodes only its first column.
func (d *Decoder) ScanFirst(rows Rows) (any, error) {
	if len(d.columns) == 0 {
		return nil, errors.New("query returned no columns")
	}
	raw, err := d.scan(rows)
	if err != nil {
		return nil, err
	}
	v, err := d.rules[0](raw[0])
	if err != nil {
		return nil, &ColumnError{Column: d.columns[0].Name, Err: err}
	}
	return v, nil
}

func (d *Decoder) scan(rows Rows) ([]any, error) {
	raw := make([]any, len(d.columns))
	ptrs := make([]any, len(d.columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return raw, nil
}

// First decodes the first row of rows. It returns false if there are no
// rows. Remaining rows are not read.
func First(rows Rows) (*Row, bool, error) {
	cols, err := Columns(rows)
	if err != nil {
		return nil, false, err
	}
	if !rows.Next() {
		return nil, false, rows.Err()
	}
	row, err := NewDecoder(cols).Scan(rows)
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// All decodes every row of rows.
func All(rows Rows) (RowSet, error) {
	cols, err := Columns(rows)
	if err != nil {
		return nil, err
	}
	d := NewDecoder(cols)
	rs := RowSet{}
	for rows.Next() {
		row, err := d.Scan(rows)
		if err != nil {
			return nil, err
		}
		rs = append(rs, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

// Scalar decodes the first column of the first row of rows. It returns false
// if there are no rows. A scalar query is expected to yield a single row;
// when it yields more, the first is used and the rest are not read, the same
// as First. Columns after the first are scanned but not decoded.
func Scalar(rows Rows) (Column, any, bool, error) {
	cols, err := Columns(rows)
	if err != nil {
		return Column{}, nil, false, err
	}
	if len(cols) == 0 {
		return Column{}, nil, false, errors.New("query returned no columns")
	}
	if !rows.Next() {
		return cols[0], nil, false, rows.Err()
	}
	v, err := NewDecoder(cols).ScanFirst(rows)
	if err != nil {
		return cols[0], nil, false, err
	}
	return cols[0], v, true, nil
}
