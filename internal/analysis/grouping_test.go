package analysis

import (
	"fmt"
	"testing"

	"adspend/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopNGroupsAndSorts(t *testing.T) {
	ds := buildDataset(sampleRows())

	top := TopN(ds, dataset.FieldSKU, dataset.FieldRevenue2025, 10)
	require.Len(t, top, 4)
	assert.Equal(t, GroupTotal{Key: "F-2", Value: 3000, Count: 1}, top[0])
	assert.Equal(t, GroupTotal{Key: "A-1", Value: 1200, Count: 2}, top[1])
	assert.Equal(t, GroupTotal{Key: "F-1", Value: 1000, Count: 1}, top[2])
	assert.Equal(t, GroupTotal{Key: "H-1", Value: 0, Count: 1}, top[3])
}

func TestTopNBounds(t *testing.T) {
	var rows []fixtureRow
	for i := 0; i < 25; i++ {
		rows = append(rows, fixtureRow{
			category: "C", sku: fmt.Sprintf("S-%02d", i%15),
			signalAMZ: "Hold", actionAMZ: "Maintain", signal: "Hold", action: "Maintain",
			revenue: float64((i * 37) % 11), spend: 1.0,
		})
	}
	ds := buildDataset(rows)

	for _, n := range []int{1, 5, 10, 15, 40} {
		top := TopN(ds, dataset.FieldSKU, dataset.FieldRevenue2025, n)

		assert.LessOrEqual(t, len(top), n)
		assert.LessOrEqual(t, len(top), 15, "never more than the distinct groups")
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(t, top[i-1].Value, top[i].Value, "descending order")
		}
	}

	assert.Len(t, TopN(ds, dataset.FieldSKU, dataset.FieldRevenue2025, 0), 15)
}

func TestTopNTiesBreakByKey(t *testing.T) {
	ds := buildDataset([]fixtureRow{
		{category: "C", sku: "B", revenue: 5.0},
		{category: "C", sku: "A", revenue: 5.0},
		{category: "C", sku: "C", revenue: 5.0},
	})

	top := TopN(ds, dataset.FieldSKU, dataset.FieldRevenue2025, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Key)
	assert.Equal(t, "B", top[1].Key)
}

func TestTopNEmptyAndUnknown(t *testing.T) {
	ds := buildDataset(sampleRows())

	assert.Empty(t, TopN(ds.Subset(nil), dataset.FieldSKU, dataset.FieldRevenue2025, 10))
	assert.Nil(t, TopN(ds, "nope", dataset.FieldRevenue2025, 10))
}

func TestValueCounts(t *testing.T) {
	ds := buildDataset(sampleRows())

	counts := ValueCounts(ds, dataset.FieldSignal2025)
	require.Len(t, counts, 3)
	assert.Equal(t, "Hold", counts[0].Key)
	assert.Equal(t, 2, counts[0].Count)
	assert.Equal(t, 2.0, counts[0].Value)
	assert.Equal(t, "Cut", counts[1].Key)
	assert.Equal(t, "Scale", counts[2].Key)
}
