package analysis

import (
	"sort"

	"adspend/domain/dataset"
	"adspend/internal/errors"
)

// SortBy returns a copy of ds ordered by field. Missing values go last in either direction.
func SortBy(ds *dataset.Dataset, field string, desc bool) (*dataset.Dataset, error) {
	col, ok := ds.Column(field)
	if !ok {
		return nil, errors.InvalidInput("unknown sort field " + field)
	}
	pos := ds.Index(field)

	indices := make([]int, ds.Len())
	for i := range indices {
		indices[i] = i
	}

	less := func(a, b dataset.Cell) bool {
		if col.Kind == dataset.KindNumeric {
			return a.Num < b.Num
		}
		return a.Text < b.Text
	}

	sort.SliceStable(indices, func(i, j int) bool {
		a, b := ds.Rows[indices[i]][pos], ds.Rows[indices[j]][pos]
		if a.IsMissing() || b.IsMissing() {
			return !a.IsMissing() && b.IsMissing()
		}
		if desc {
			return less(b, a)
		}
		return less(a, b)
	})
	return ds.Subset(indices), nil
}

// Project keeps the named fields, in order
func Project(ds *dataset.Dataset, fields ...string) (*dataset.Dataset, error) {
	projected, ok := ds.Project(fields...)
	if !ok {
		return nil, errors.InvalidInput("projection names an unknown field")
	}
	return projected, nil
}
