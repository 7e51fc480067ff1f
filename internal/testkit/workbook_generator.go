package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"adspend/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// SKURecord is one data row of the ad-spend workbook. Numeric fields take float64,
// a string (written as text) or nil (left blank).
type SKURecord struct {
	Category    string
	SKU         string
	DecRevenue  interface{}
	DecAdSpend  interface{}
	DecSpendPct interface{}
	SignalAMZ   string
	ActionAMZ   string
	Revenue     interface{}
	AdSpend     interface{}
	RevenuePct  interface{}
	Signal      string
	Action      string
}

func (r SKURecord) value(field string) interface{} {
	switch field {
	case dataset.FieldCategory:
		return r.Category
	case dataset.FieldSKU:
		return r.SKU
	case dataset.FieldDecRevenue:
		return r.DecRevenue
	case dataset.FieldDecAdSpend:
		return r.DecAdSpend
	case dataset.FieldDecSpendPct:
		return r.DecSpendPct
	case dataset.FieldSignalAMZ:
		return r.SignalAMZ
	case dataset.FieldActionAMZ:
		return r.ActionAMZ
	case dataset.FieldRevenue2025:
		return r.Revenue
	case dataset.FieldAdSpend2025:
		return r.AdSpend
	case dataset.FieldRevenuePct2025:
		return r.RevenuePct
	case dataset.FieldSignal2025:
		return r.Signal
	case dataset.FieldAction2025:
		return r.Action
	}
	return nil
}

// WorkbookGeneratorConfig configures the demo workbook generator
type WorkbookGeneratorConfig struct {
	SheetName     string   `json:"sheet_name"`
	SKUCount      int      `json:"sku_count"`
	Categories    []string `json:"categories"`
	BlankRowEvery int      `json:"blank_row_every"` // insert an all-blank row every N records, 0 disables
	Seed          int64    `json:"seed"`
}

// DefaultWorkbookConfig returns sensible defaults for demo workbook generation
func DefaultWorkbookConfig() WorkbookGeneratorConfig {
	return WorkbookGeneratorConfig{
		SheetName:     "SKU WISE AD SPEND",
		SKUCount:      40,
		Categories:    []string{"Apparel", "Footwear", "Accessories", "Home"},
		BlankRowEvery: 15,
		Seed:          42,
	}
}

// WorkbookGenerator produces ad-spend records and writes them in the fixed layout
type WorkbookGenerator struct {
	config WorkbookGeneratorConfig
	rng    *rand.Rand
}

// NewWorkbookGenerator creates a new generator
func NewWorkbookGenerator(config WorkbookGeneratorConfig) *WorkbookGenerator {
	return &WorkbookGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var (
	signals = []string{"Scale", "Hold", "Cut"}
	actions = map[string]string{
		"Scale": "Increase budget",
		"Hold":  "Maintain",
		"Cut":   "Reduce spend",
	}
)

// GenerateRecords builds SKUCount deterministic records
func (g *WorkbookGenerator) GenerateRecords() []SKURecord {
	records := make([]SKURecord, 0, g.config.SKUCount)
	for i := 0; i < g.config.SKUCount; i++ {
		category := g.config.Categories[i%len(g.config.Categories)]

		revenue := roundTo(5000+g.rng.Float64()*95000, 0)
		spendRatio := 0.02 + g.rng.Float64()*0.25
		spend := roundTo(revenue*spendRatio, 0)
		decRevenue := roundTo(revenue*(0.05+g.rng.Float64()*0.1), 0)
		decSpend := roundTo(decRevenue*(0.02+g.rng.Float64()*0.3), 0)

		signal := signalFor(spend / revenue)
		amzSignal := signalFor(decSpend / decRevenue)

		records = append(records, SKURecord{
			Category:    category,
			SKU:         fmt.Sprintf("%s-%03d", category[:3], i+1),
			DecRevenue:  decRevenue,
			DecAdSpend:  decSpend,
			DecSpendPct: decSpend / decRevenue,
			SignalAMZ:   amzSignal,
			ActionAMZ:   actions[amzSignal],
			Revenue:     revenue,
			AdSpend:     spend,
			RevenuePct:  spend / revenue,
			Signal:      signal,
			Action:      actions[signal],
		})
	}
	return records
}

func signalFor(ratio float64) string {
	switch {
	case ratio < 0.08:
		return signals[0]
	case ratio < 0.18:
		return signals[1]
	default:
		return signals[2]
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// WriteWorkbook writes records into path using the layout's letters and header row
func (g *WorkbookGenerator) WriteWorkbook(path string, layout dataset.Layout, records []SKURecord) error {
	return WriteWorkbook(path, g.config.SheetName, layout, records, g.config.BlankRowEvery)
}

// WriteWorkbook writes records below the layout's header row. Rows above it get banner text,
// and a filler column between the mapped ones mimics the wide source workbook.
func WriteWorkbook(path, sheetName string, layout dataset.Layout, records []SKURecord, blankRowEvery int) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	for r := 1; r < layout.HeaderRow; r++ {
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), fmt.Sprintf("SKU WISE AD SPEND (banner %d)", r)); err != nil {
			return err
		}
	}

	if err := f.SetCellValue(sheetName, fmt.Sprintf("C%d", layout.HeaderRow), "NOTES"); err != nil {
		return err
	}
	for _, col := range layout.Columns {
		if err := f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col.Letter, layout.HeaderRow), col.SourceHeader); err != nil {
			return fmt.Errorf("failed to write header %s: %w", col.Letter, err)
		}
	}

	rowNum := layout.HeaderRow
	for i, record := range records {
		if blankRowEvery > 0 && i > 0 && i%blankRowEvery == 0 {
			rowNum++ // left blank
		}
		rowNum++
		for _, col := range layout.Columns {
			v := record.value(col.Field)
			if v == nil || v == "" {
				continue
			}
			if err := f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col.Letter, rowNum), v); err != nil {
				return fmt.Errorf("failed to write %s%d: %w", col.Letter, rowNum, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// FixtureRecords is a small hand-checked record set: revenue 2025 totals 35,000
// and ad spend 2025 totals 3,500 across two Footwear SKUs and one Apparel SKU.
func FixtureRecords() []SKURecord {
	return []SKURecord{
		{
			Category: "Footwear", SKU: "FOO-001",
			DecRevenue: 1000.0, DecAdSpend: 100.0, DecSpendPct: 0.1,
			SignalAMZ: "Hold", ActionAMZ: "Maintain",
			Revenue: 10000.0, AdSpend: 1000.0, RevenuePct: 0.1,
			Signal: "Hold", Action: "Maintain",
		},
		{
			Category: "Footwear", SKU: "FOO-002",
			DecRevenue: 3000.0, DecAdSpend: 150.0, DecSpendPct: 0.05,
			SignalAMZ: "Scale", ActionAMZ: "Increase budget",
			Revenue: 20000.0, AdSpend: 1000.0, RevenuePct: 0.05,
			Signal: "Scale", Action: "Increase budget",
		},
		{
			Category: "Apparel", SKU: "APP-001",
			DecRevenue: 500.0, DecAdSpend: 250.0, DecSpendPct: 0.5,
			SignalAMZ: "Cut", ActionAMZ: "Reduce spend",
			Revenue: 5000.0, AdSpend: 1500.0, RevenuePct: 0.3,
			Signal: "Cut", Action: "Reduce spend",
		},
	}
}
