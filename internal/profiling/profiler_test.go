package profiling

import (
	"testing"

	"adspend/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	summary, err := Summarize([]float64{1, 2, 3, 4, 100})
	require.NoError(t, err)

	assert.InDelta(t, 22, summary.Mean, 1e-9)
	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 100.0, summary.Max)
	assert.Equal(t, 3.0, summary.Median)
	assert.Equal(t, 1, summary.Outliers)

	_, err = Summarize(nil)
	assert.Error(t, err)
}

func TestProfileDataset(t *testing.T) {
	columns := []dataset.Column{
		{ColumnSpec: dataset.ColumnSpec{Letter: "B", Field: dataset.FieldSKU, Kind: dataset.KindCategorical}, Header: "SKU PLAIN"},
		{ColumnSpec: dataset.ColumnSpec{Letter: "EI", Field: dataset.FieldRevenue2025, Kind: dataset.KindNumeric}, Header: "REVENUE 2025"},
		{ColumnSpec: dataset.ColumnSpec{Letter: "EK", Field: dataset.FieldAdSpend2025, Kind: dataset.KindNumeric}, Header: "ADVT SPEND 2025"},
	}
	ds := dataset.New("t", columns, []dataset.Row{
		{dataset.TextCell("A"), dataset.NumCell(10), dataset.MissingCell()},
		{dataset.TextCell("A"), dataset.NumCell(30), dataset.MissingCell()},
		{dataset.TextCell(""), dataset.MissingCell(), dataset.MissingCell()},
	})

	profiles := ProfileDataset(ds)
	require.Len(t, profiles, 3)

	sku := profiles[0]
	assert.Equal(t, "B", sku.Letter)
	assert.Equal(t, 2, sku.Present)
	assert.Equal(t, 1, sku.Distinct)
	assert.Nil(t, sku.Summary)

	revenue := profiles[1]
	assert.Equal(t, 1, revenue.Missing)
	require.NotNil(t, revenue.Summary)
	assert.Equal(t, 20.0, revenue.Summary.Mean)
	assert.InDelta(t, 1.0/3, revenue.MissingRate(), 1e-9)

	spend := profiles[2]
	assert.Equal(t, 3, spend.Missing)
	assert.Nil(t, spend.Summary, "no values, no summary")
}
