package analysis

import (
	"adspend/domain/dataset"
)

type fixtureRow struct {
	category, sku, signalAMZ, actionAMZ, signal, action string
	decRevenue, decSpend, decPct, revenue, spend, pct   interface{}
}

func num(v interface{}) dataset.Cell {
	if f, ok := v.(float64); ok {
		return dataset.NumCell(f)
	}
	return dataset.MissingCell()
}

func buildDataset(rows []fixtureRow) *dataset.Dataset {
	layout := dataset.SKUAdSpendLayout()
	columns := make([]dataset.Column, len(layout.Columns))
	for i, spec := range layout.Columns {
		columns[i] = dataset.Column{ColumnSpec: spec, Header: spec.SourceHeader}
	}

	out := make([]dataset.Row, len(rows))
	for i, r := range rows {
		out[i] = dataset.Row{
			dataset.TextCell(r.category),
			dataset.TextCell(r.sku),
			num(r.decRevenue),
			num(r.decSpend),
			num(r.decPct),
			dataset.TextCell(r.signalAMZ),
			dataset.TextCell(r.actionAMZ),
			num(r.revenue),
			num(r.spend),
			num(r.pct),
			dataset.TextCell(r.signal),
			dataset.TextCell(r.action),
		}
	}
	return dataset.New("fixture.xlsx", columns, out)
}

func sampleRows() []fixtureRow {
	return []fixtureRow{
		{"Footwear", "F-1", "Hold", "Maintain", "Hold", "Maintain", 100.0, 10.0, 0.1, 1000.0, 100.0, 0.1},
		{"Footwear", "F-2", "Scale", "Increase", "Scale", "Increase", 200.0, 10.0, 0.05, 3000.0, 150.0, 0.05},
		{"Apparel", "A-1", "Cut", "Reduce", "Cut", "Reduce", 50.0, 25.0, 0.5, 500.0, 250.0, 0.5},
		{"Apparel", "A-1", "Hold", "Maintain", "Hold", "Maintain", 80.0, nil, nil, 700.0, "x", nil},
		{"Home", "H-1", "Scale", "Increase", "", "", nil, nil, nil, nil, nil, nil},
	}
}
