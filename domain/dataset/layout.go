package dataset

// Semantic field names of the SKU ad-spend workbook
const (
	FieldCategory       = "Category"
	FieldSKU            = "SKU"
	FieldDecRevenue     = "Dec 25 Revenue"
	FieldDecAdSpend     = "Dec 25 Ad Spend"
	FieldDecSpendPct    = "Dec 25 Spend % of Revenue"
	FieldSignalAMZ      = "Signal (AMZ)"
	FieldActionAMZ      = "Action (AMZ)"
	FieldRevenue2025    = "Revenue 2025"
	FieldAdSpend2025    = "Ad Spend 2025"
	FieldRevenuePct2025 = "% of Revenue 2025"
	FieldSignal2025     = "Signal 2025"
	FieldAction2025     = "Action 2025"
)

// Layout fixes where the table sits in the workbook and which columns it keeps
type Layout struct {
	Sheet     string // empty selects the first sheet
	HeaderRow int    // 1-based
	Columns   []ColumnSpec
}

// SKUAdSpendLayout is the layout of "SKU WISE AD SPEND.xlsx": two banner rows, headers on row 3.
func SKUAdSpendLayout() Layout {
	return Layout{
		HeaderRow: 3,
		Columns: []ColumnSpec{
			{Letter: "A", Field: FieldCategory, SourceHeader: "CAT", Kind: KindCategorical},
			{Letter: "B", Field: FieldSKU, SourceHeader: "SKU PLAIN", Kind: KindCategorical},
			{Letter: "DV", Field: FieldDecRevenue, SourceHeader: "DEC-25 REVENUE", Kind: KindNumeric},
			{Letter: "DX", Field: FieldDecAdSpend, SourceHeader: "DEC-25 ADVT SPEND", Kind: KindNumeric},
			{Letter: "DZ", Field: FieldDecSpendPct, SourceHeader: "% of Revenue (Spend)", Kind: KindNumeric},
			{Letter: "EE", Field: FieldSignalAMZ, SourceHeader: "Signal(AMZ)", Kind: KindCategorical},
			{Letter: "EF", Field: FieldActionAMZ, SourceHeader: "Action(AMZ)", Kind: KindCategorical},
			{Letter: "EI", Field: FieldRevenue2025, SourceHeader: "REVENUE 2025", Kind: KindNumeric},
			{Letter: "EK", Field: FieldAdSpend2025, SourceHeader: "ADVT SPEND 2025", Kind: KindNumeric},
			{Letter: "EM", Field: FieldRevenuePct2025, SourceHeader: "% of Revenue 2025", Kind: KindNumeric},
			{Letter: "EN", Field: FieldSignal2025, SourceHeader: "Signal 2025", Kind: KindCategorical},
			{Letter: "EO", Field: FieldAction2025, SourceHeader: "Action 2025", Kind: KindCategorical},
		},
	}
}

// FilterFields are the categorical columns a user can narrow the dashboard by
func FilterFields() []string {
	return []string{
		FieldCategory,
		FieldSKU,
		FieldSignalAMZ,
		FieldActionAMZ,
		FieldSignal2025,
		FieldAction2025,
	}
}
