package dataset

import (
	"math"
)

// FieldKind tells the loader how to treat a column's cells
type FieldKind string

const (
	KindCategorical FieldKind = "categorical"
	KindNumeric     FieldKind = "numeric"
)

// ColumnSpec binds a worksheet column letter to a semantic field name
type ColumnSpec struct {
	Letter       string    `json:"letter"`
	Field        string    `json:"field"`
	SourceHeader string    `json:"source_header"` // header text the workbook is expected to carry
	Kind         FieldKind `json:"kind"`
}

// Column describes a loaded column: its spec plus the header text actually found
type Column struct {
	ColumnSpec
	Header string `json:"header"`
}

// Cell holds one value. Numeric cells use Num/Valid, categorical cells use Text.
type Cell struct {
	Text  string  `json:"text,omitempty"`
	Num   float64 `json:"num,omitempty"`
	Valid bool    `json:"valid"`
}

// TextCell builds a categorical cell; empty text is missing
func TextCell(s string) Cell {
	return Cell{Text: s, Valid: s != ""}
}

// NumCell builds a present numeric cell
func NumCell(v float64) Cell {
	return Cell{Num: v, Valid: true}
}

// MissingCell is an absent value of either kind
func MissingCell() Cell {
	return Cell{}
}

// IsMissing reports whether the cell carries no value
func (c Cell) IsMissing() bool {
	return !c.Valid
}

// Row is a slice of cells aligned with Dataset.Columns
type Row []Cell

// Dataset is a read-only table. Derived datasets share Columns but never Rows storage.
type Dataset struct {
	Source  string   `json:"source"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`

	index map[string]int
}

// New builds a dataset over the given columns and rows
func New(source string, columns []Column, rows []Row) *Dataset {
	ds := &Dataset{Source: source, Columns: columns, Rows: rows}
	ds.buildIndex()
	return ds
}

func (d *Dataset) buildIndex() {
	d.index = make(map[string]int, len(d.Columns))
	for i, col := range d.Columns {
		d.index[col.Field] = i
	}
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Empty reports whether the dataset has no rows
func (d *Dataset) Empty() bool {
	return d.Len() == 0
}

// Index returns the position of a field, or -1
func (d *Dataset) Index(field string) int {
	if d.index == nil {
		d.buildIndex()
	}
	if i, ok := d.index[field]; ok {
		return i
	}
	return -1
}

// Column returns the column for a field
func (d *Dataset) Column(field string) (Column, bool) {
	i := d.Index(field)
	if i < 0 {
		return Column{}, false
	}
	return d.Columns[i], true
}

// Fields returns the semantic field names in column order
func (d *Dataset) Fields() []string {
	fields := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		fields[i] = col.Field
	}
	return fields
}

// Cell returns the cell at row r for a field; unknown fields yield a missing cell
func (d *Dataset) Cell(r int, field string) Cell {
	i := d.Index(field)
	if i < 0 || i >= len(d.Rows[r]) {
		return MissingCell()
	}
	return d.Rows[r][i]
}

// Subset copies the rows at the given indices into a new dataset
func (d *Dataset) Subset(indices []int) *Dataset {
	rows := make([]Row, len(indices))
	for i, idx := range indices {
		rows[i] = append(Row(nil), d.Rows[idx]...)
	}
	return New(d.Source, d.Columns, rows)
}

// Project copies the named fields into a new dataset, in the order given
func (d *Dataset) Project(fields ...string) (*Dataset, bool) {
	positions := make([]int, len(fields))
	columns := make([]Column, len(fields))
	for i, field := range fields {
		pos := d.Index(field)
		if pos < 0 {
			return nil, false
		}
		positions[i] = pos
		columns[i] = d.Columns[pos]
	}

	rows := make([]Row, len(d.Rows))
	for r, row := range d.Rows {
		projected := make(Row, len(positions))
		for i, pos := range positions {
			projected[i] = row[pos]
		}
		rows[r] = projected
	}
	return New(d.Source, columns, rows), true
}

// Equal compares columns and cell values; NaN-free by construction
func (d *Dataset) Equal(other *Dataset) bool {
	if d == nil || other == nil {
		return d == other
	}
	if len(d.Columns) != len(other.Columns) || len(d.Rows) != len(other.Rows) {
		return false
	}
	for i := range d.Columns {
		if d.Columns[i] != other.Columns[i] {
			return false
		}
	}
	for r := range d.Rows {
		if len(d.Rows[r]) != len(other.Rows[r]) {
			return false
		}
		for c := range d.Rows[r] {
			a, b := d.Rows[r][c], other.Rows[r][c]
			if a.Valid != b.Valid || a.Text != b.Text {
				return false
			}
			if a.Num != b.Num && !(math.IsNaN(a.Num) && math.IsNaN(b.Num)) {
				return false
			}
		}
	}
	return true
}
