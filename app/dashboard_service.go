package app

import (
	"context"
	"time"

	"adspend/domain/dataset"
	"adspend/internal"
	"adspend/internal/analysis"
	"adspend/internal/errors"
	"adspend/ports"
)

// EmptySelectionWarning is shown when the filters leave nothing to render
const EmptySelectionWarning = "No rows match the selected filters. Please adjust your selections."

// DashboardService runs the load → filter → aggregate pipeline for one interaction
type DashboardService struct {
	source ports.DatasetSource
	path   string
	topN   int
	logger *internal.Logger
}

// KPI is one metric card
type KPI struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Value   *float64 `json:"value"` // nil when undefined
	Display string   `json:"display"`
	Subtext string   `json:"subtext"`
}

// TableView is a JSON-friendly table; missing cells are nil
type TableView struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Dashboard holds everything the front-end renders for one selection
type Dashboard struct {
	Source       string                  `json:"source"`
	TotalRows    int                     `json:"total_rows"`
	FilteredRows int                     `json:"filtered_rows"`
	Selection    analysis.Selection      `json:"selection"`
	Options      map[string][]string     `json:"options"`
	KPIs         []KPI                   `json:"kpis"`
	TopRevenue   []analysis.GroupTotal   `json:"top_revenue"`
	TopSpend     []analysis.GroupTotal   `json:"top_spend"`
	SignalMix    []analysis.GroupTotal   `json:"signal_mix"`
	Scatter      []analysis.ScatterPoint `json:"scatter"`
	Trend        *analysis.TrendLine     `json:"trend,omitempty"`
	Snapshot     TableView               `json:"snapshot"`
	Table        TableView               `json:"table"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// SnapshotFields are the December snapshot table columns
var SnapshotFields = []string{
	dataset.FieldSKU,
	dataset.FieldDecRevenue,
	dataset.FieldDecAdSpend,
	dataset.FieldDecSpendPct,
	dataset.FieldSignalAMZ,
	dataset.FieldActionAMZ,
}

// NewDashboardService creates a service reading the workbook at path through source
func NewDashboardService(source ports.DatasetSource, path string, topN int, logger *internal.Logger) *DashboardService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if topN < 1 {
		topN = 10
	}
	return &DashboardService{source: source, path: path, topN: topN, logger: logger}
}

// Path returns the workbook path the service reads
func (s *DashboardService) Path() string {
	return s.path
}

// Dataset returns the full, unfiltered dataset
func (s *DashboardService) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	return s.source.Get(ctx, s.path)
}

// Options returns the selectable values of every filter field
func (s *DashboardService) Options(ctx context.Context) (map[string][]string, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return filterOptions(ds), nil
}

func filterOptions(ds *dataset.Dataset) map[string][]string {
	options := make(map[string][]string)
	for _, field := range analysis.CategoricalFields(ds) {
		options[field] = analysis.Options(ds, field)
	}
	return options
}

// Filter applies sel and fails with EMPTY_SELECTION when nothing is left
func (s *DashboardService) Filter(ctx context.Context, sel analysis.Selection) (*dataset.Dataset, *dataset.Dataset, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, nil, err
	}

	filtered, err := analysis.Filter(ds, sel)
	if err != nil {
		return nil, nil, err
	}
	if filtered.Empty() {
		return ds, filtered, errors.EmptySelection(EmptySelectionWarning)
	}
	return ds, filtered, nil
}

// Build computes the dashboard for sel
func (s *DashboardService) Build(ctx context.Context, sel analysis.Selection) (*Dashboard, error) {
	startTime := time.Now()

	ds, filtered, err := s.Filter(ctx, sel)
	if err != nil {
		return nil, err
	}

	scatter := analysis.ScatterPoints(filtered, analysis.ScatterSpec{
		X:     dataset.FieldAdSpend2025,
		Y:     dataset.FieldRevenue2025,
		Color: dataset.FieldSignal2025,
		Label: dataset.FieldSKU,
		Size:  dataset.FieldDecRevenue,
	})

	snapshot, err := s.snapshot(filtered)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Source:       ds.Source,
		TotalRows:    ds.Len(),
		FilteredRows: filtered.Len(),
		Selection:    analysis.Effective(ds, sel),
		Options:      filterOptions(ds),
		KPIs:         KPIs(filtered),
		TopRevenue:   analysis.TopN(filtered, dataset.FieldSKU, dataset.FieldRevenue2025, s.topN),
		TopSpend:     analysis.TopN(filtered, dataset.FieldSKU, dataset.FieldAdSpend2025, s.topN),
		SignalMix:    analysis.ValueCounts(filtered, dataset.FieldSignal2025),
		Scatter:      scatter,
		Snapshot:     Table(snapshot),
		Table:        Table(filtered),
		GeneratedAt:  time.Now().UTC(),
	}
	if line, ok := analysis.Trend(scatter); ok {
		d.Trend = &line
	}

	s.logger.Debug("[DashboardService] Built dashboard: %d/%d rows in %.2fms",
		d.FilteredRows, d.TotalRows, float64(time.Since(startTime).Nanoseconds())/1e6)
	return d, nil
}

func (s *DashboardService) snapshot(filtered *dataset.Dataset) (*dataset.Dataset, error) {
	projected, err := analysis.Project(filtered, SnapshotFields...)
	if err != nil {
		return nil, err
	}
	return analysis.SortBy(projected, dataset.FieldDecRevenue, true)
}

// KPIs computes the metric cards over a filtered dataset
func KPIs(ds *dataset.Dataset) []KPI {
	revenue := analysis.Sum(ds, dataset.FieldRevenue2025)
	spend := analysis.Sum(ds, dataset.FieldAdSpend2025)
	decRevenue := analysis.Sum(ds, dataset.FieldDecRevenue)
	decSpend := analysis.Sum(ds, dataset.FieldDecAdSpend)
	meanPct, meanOK := analysis.Mean(ds, dataset.FieldRevenuePct2025)

	return []KPI{
		currencyKPI("revenue_2025", "Revenue 2025", revenue, "Total revenue"),
		currencyKPI("ad_spend_2025", "Ad Spend 2025", spend, "Total spend"),
		percentKPI("revenue_pct_2025", "% of Revenue 2025", meanPct, meanOK, "Average across SKUs"),
		percentKPI("spend_ratio_2025", "Spend % of Revenue 2025", analysis.Ratio(spend, revenue), true, "Spend / Revenue"),
		currencyKPI("dec_revenue", "Dec-25 Revenue", decRevenue, "Monthly revenue"),
		currencyKPI("dec_ad_spend", "Dec-25 Ad Spend", decSpend, "Monthly spend"),
		percentKPI("dec_spend_ratio", "Dec-25 Spend %", analysis.Ratio(decSpend, decRevenue), true, "Spend / Revenue"),
	}
}

func currencyKPI(key, label string, value float64, subtext string) KPI {
	return KPI{Key: key, Label: label, Value: &value, Display: analysis.FormatCurrency(value, true), Subtext: subtext}
}

func percentKPI(key, label string, value float64, ok bool, subtext string) KPI {
	kpi := KPI{Key: key, Label: label, Display: analysis.FormatPercent(value, ok), Subtext: subtext}
	if ok {
		kpi.Value = &value
	}
	return kpi
}

// Table converts a dataset into a TableView
func Table(ds *dataset.Dataset) TableView {
	view := TableView{Columns: ds.Fields(), Rows: make([][]interface{}, ds.Len())}
	for r, row := range ds.Rows {
		out := make([]interface{}, len(row))
		for c, cell := range row {
			switch {
			case cell.IsMissing():
				out[c] = nil
			case ds.Columns[c].Kind == dataset.KindNumeric:
				out[c] = cell.Num
			default:
				out[c] = cell.Text
			}
		}
		view.Rows[r] = out
	}
	return view
}
