package analysis

import (
	"github.com/dustin/go-humanize"
)

// MissingMark is shown in place of an undefined value
const MissingMark = "—"

// FormatCurrency renders a whole-dollar amount with thousands separators
func FormatCurrency(value float64, ok bool) string {
	if !ok {
		return MissingMark
	}
	return "$" + humanize.FormatFloat("#,###.", value)
}

// FormatPercent renders a fraction as a percentage with two decimals
func FormatPercent(value float64, ok bool) string {
	if !ok {
		return MissingMark
	}
	return humanize.FormatFloat("#,###.##", value*100) + "%"
}
