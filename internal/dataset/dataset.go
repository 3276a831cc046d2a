package dataset

import "fmt"

// Row holds one cell per column; nil is a missing value.
type Row []*string

// Dataset is an ordered table whose rows always have len(Columns) cells.
type Dataset struct {
	Columns []string
	Rows    []Row
}

func New(columns []string) *Dataset {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Dataset{Columns: cols}
}

// Append adds a row, padding with nil or rejecting extra cells.
func (d *Dataset) Append(row Row) error {
	if len(row) > len(d.Columns) {
		return fmt.Errorf("row has %d cells, header has %d columns", len(row), len(d.Columns))
	}
	full := make(Row, len(d.Columns))
	copy(full, row)
	d.Rows = append(d.Rows, full)
	return nil
}

func (d *Dataset) Len() int { return len(d.Rows) }

// Column returns the index of name and whether it exists.
func (d *Dataset) Column(name string) (int, bool) {
	for i, c := range d.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

func (d *Dataset) Value(row, col int) *string {
	return d.Rows[row][col]
}

// Set replaces one cell. Concurrent calls are safe for distinct cells.
func (d *Dataset) Set(row, col int, value *string) {
	d.Rows[row][col] = value
}

// AddColumn appends an all-nil column and returns its index.
func (d *Dataset) AddColumn(name string) (int, error) {
	if _, ok := d.Column(name); ok {
		return -1, fmt.Errorf("column %q already exists", name)
	}
	d.Columns = append(d.Columns, name)
	for i := range d.Rows {
		d.Rows[i] = append(d.Rows[i], nil)
	}
	return len(d.Columns) - 1, nil
}

// Filter keeps rows for which keep returns true, preserving order.
// It returns the number of rows dropped.
func (d *Dataset) Filter(keep func(Row) bool) int {
	before := len(d.Rows)
	out := d.Rows[:0]
	for _, row := range d.Rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	for i := len(out); i < before; i++ {
		d.Rows[i] = nil
	}
	d.Rows = out
	return before - len(out)
}

func (d *Dataset) Clone() *Dataset {
	out := New(d.Columns)
	out.Rows = make([]Row, 0, len(d.Rows))
	for _, row := range d.Rows {
		cp := make(Row, len(row))
		for i, v := range row {
			if v != nil {
				s := *v
				cp[i] = &s
			}
		}
		out.Rows = append(out.Rows, cp)
	}
	return out
}
