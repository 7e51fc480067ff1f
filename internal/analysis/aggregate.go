package analysis

import (
	"adspend/domain/dataset"

	"github.com/montanaflynn/stats"
)

// Values returns the present numeric values of a field
func Values(ds *dataset.Dataset, field string) stats.Float64Data {
	pos := ds.Index(field)
	if pos < 0 {
		return nil
	}
	values := make(stats.Float64Data, 0, ds.Len())
	for _, row := range ds.Rows {
		if cell := row[pos]; !cell.IsMissing() {
			values = append(values, cell.Num)
		}
	}
	return values
}

// Sum adds the present values of a field. An empty or all-missing column sums to 0.
func Sum(ds *dataset.Dataset, field string) float64 {
	total, err := stats.Sum(Values(ds, field))
	if err != nil {
		return 0
	}
	return total
}

// Mean averages the present values of a field. ok is false when there are none.
func Mean(ds *dataset.Dataset, field string) (float64, bool) {
	mean, err := stats.Mean(Values(ds, field))
	if err != nil {
		return 0, false
	}
	return mean, true
}

// Ratio divides numerator by denominator, returning 0 for a zero denominator
func Ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
