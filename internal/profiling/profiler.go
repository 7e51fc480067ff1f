package profiling

import (
	"adspend/domain/dataset"
	"adspend/internal/analysis"
)

// ColumnProfile summarises one loaded column
type ColumnProfile struct {
	Letter   string            `json:"letter"`
	Field    string            `json:"field"`
	Header   string            `json:"header"`
	Kind     dataset.FieldKind `json:"kind"`
	Present  int               `json:"present"`
	Missing  int               `json:"missing"`
	Distinct int               `json:"distinct,omitempty"` // categorical only
	Summary  *NumericSummary   `json:"summary,omitempty"`  // numeric with at least one value
}

// MissingRate is the share of rows without a value
func (p ColumnProfile) MissingRate() float64 {
	return analysis.Ratio(float64(p.Missing), float64(p.Present+p.Missing))
}

// ProfileDataset profiles every column of ds in column order
func ProfileDataset(ds *dataset.Dataset) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		profiles = append(profiles, ProfileColumn(ds, col))
	}
	return profiles
}

// ProfileColumn counts present and missing cells and summarises numeric values
func ProfileColumn(ds *dataset.Dataset, col dataset.Column) ColumnProfile {
	profile := ColumnProfile{
		Letter: col.Letter,
		Field:  col.Field,
		Header: col.Header,
		Kind:   col.Kind,
	}

	pos := ds.Index(col.Field)
	for _, row := range ds.Rows {
		if pos < 0 || row[pos].IsMissing() {
			profile.Missing++
			continue
		}
		profile.Present++
	}

	switch col.Kind {
	case dataset.KindCategorical:
		profile.Distinct = len(analysis.Options(ds, col.Field))
	case dataset.KindNumeric:
		if summary, err := Summarize(analysis.Values(ds, col.Field)); err == nil {
			profile.Summary = &summary
		}
	}
	return profile
}
