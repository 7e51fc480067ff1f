package analysis

import (
	"fmt"
	"sort"

	"adspend/domain/dataset"
	"adspend/internal/errors"
)

// Selection maps a categorical field to the values the user picked.
// A field absent from the map means every observed value; a present
// but empty slice selects nothing.
type Selection map[string][]string

// Options returns the sorted distinct non-missing values of a field
func Options(ds *dataset.Dataset, field string) []string {
	pos := ds.Index(field)
	if pos < 0 {
		return nil
	}

	seen := make(map[string]struct{})
	for _, row := range ds.Rows {
		if cell := row[pos]; !cell.IsMissing() && cell.Text != "" {
			seen[cell.Text] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// CategoricalFields lists the dataset's categorical fields in column order
func CategoricalFields(ds *dataset.Dataset) []string {
	var fields []string
	for _, col := range ds.Columns {
		if col.Kind == dataset.KindCategorical {
			fields = append(fields, col.Field)
		}
	}
	return fields
}

// Effective expands sel into an explicit selection for every categorical field
func Effective(ds *dataset.Dataset, sel Selection) Selection {
	out := make(Selection)
	for _, field := range CategoricalFields(ds) {
		if values, ok := sel[field]; ok {
			out[field] = append([]string{}, values...)
			continue
		}
		out[field] = Options(ds, field)
	}
	return out
}

// Validate rejects selections on unknown or numeric fields
func (s Selection) Validate(ds *dataset.Dataset) error {
	for field := range s {
		col, ok := ds.Column(field)
		if !ok {
			return errors.InvalidInput(fmt.Sprintf("unknown filter field %q", field))
		}
		if col.Kind != dataset.KindCategorical {
			return errors.InvalidInput(fmt.Sprintf("field %q is not categorical", field))
		}
	}
	return nil
}

type membership struct {
	pos     int
	allowed map[string]struct{} // nil admits every non-missing value
}

// Filter returns the rows whose every categorical field holds one of the selected
// values. Missing categorical values are never among the observed values, so they
// never match. The result is a copy; ds is left untouched.
func Filter(ds *dataset.Dataset, sel Selection) (*dataset.Dataset, error) {
	if err := sel.Validate(ds); err != nil {
		return nil, err
	}

	var checks []membership
	for _, field := range CategoricalFields(ds) {
		m := membership{pos: ds.Index(field)}
		if values, ok := sel[field]; ok {
			m.allowed = make(map[string]struct{}, len(values))
			for _, v := range values {
				m.allowed[v] = struct{}{}
			}
		}
		checks = append(checks, m)
	}

	indices := make([]int, 0, ds.Len())
	for i, row := range ds.Rows {
		if matchesAll(row, checks) {
			indices = append(indices, i)
		}
	}
	return ds.Subset(indices), nil
}

func matchesAll(row dataset.Row, checks []membership) bool {
	for _, m := range checks {
		cell := row[m.pos]
		if cell.IsMissing() || cell.Text == "" {
			return false
		}
		if m.allowed == nil {
			continue
		}
		if _, ok := m.allowed[cell.Text]; !ok {
			return false
		}
	}
	return true
}
