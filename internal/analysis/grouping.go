package analysis

import (
	"sort"

	"adspend/domain/dataset"
)

// GroupTotal is one bar of a grouped chart
type GroupTotal struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// TopN groups rows by groupField, sums metricField per group and keeps the n largest
// totals in descending order. Rows without a group key are skipped; n <= 0 keeps all.
func TopN(ds *dataset.Dataset, groupField, metricField string, n int) []GroupTotal {
	groupPos, metricPos := ds.Index(groupField), ds.Index(metricField)
	if groupPos < 0 || metricPos < 0 {
		return nil
	}

	totals := make(map[string]*GroupTotal)
	for _, row := range ds.Rows {
		key := row[groupPos]
		if key.IsMissing() || key.Text == "" {
			continue
		}
		g, ok := totals[key.Text]
		if !ok {
			g = &GroupTotal{Key: key.Text}
			totals[key.Text] = g
		}
		g.Count++
		if metric := row[metricPos]; !metric.IsMissing() {
			g.Value += metric.Num
		}
	}

	return limit(sortedDesc(totals), n)
}

// ValueCounts counts rows per distinct value of field, most frequent first
func ValueCounts(ds *dataset.Dataset, field string) []GroupTotal {
	pos := ds.Index(field)
	if pos < 0 {
		return nil
	}

	counts := make(map[string]*GroupTotal)
	for _, row := range ds.Rows {
		cell := row[pos]
		if cell.IsMissing() || cell.Text == "" {
			continue
		}
		g, ok := counts[cell.Text]
		if !ok {
			g = &GroupTotal{Key: cell.Text}
			counts[cell.Text] = g
		}
		g.Count++
		g.Value++
	}
	return sortedDesc(counts)
}

// sortedDesc orders by value descending, breaking ties by key so output is stable
func sortedDesc(groups map[string]*GroupTotal) []GroupTotal {
	out := make([]GroupTotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func limit(groups []GroupTotal, n int) []GroupTotal {
	if n > 0 && len(groups) > n {
		return groups[:n]
	}
	return groups
}
