package coercer

import (
	"math"
	"strconv"
	"strings"

	"adspend/domain/dataset"
)

// NumericCoercer turns raw worksheet text into numbers. Anything it cannot parse is missing.
type NumericCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules. The zero value accepts plain
// decimal numbers only; every other rule is opt-in.
type CoercionConfig struct {
	CurrencySymbols     []string `json:"currency_symbols"`
	ThousandsSeparators bool     `json:"thousands_separators"` // "1,234" and "1 234" become 1234
	PercentAsRatio      bool     `json:"percent_as_ratio"`     // "12%" becomes 0.12
	AllowParentheses    bool     `json:"allow_parentheses"`    // "(123)" becomes -123
}

// DefaultCoercionConfig accepts only plain decimal text, so formatted strings such as
// "$1,234" or "12%" are missing, the same as the dashboards always treated them
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{}
}

// LenientCoercionConfig also reads currency, separators, percentages and accounting negatives
func LenientCoercionConfig() CoercionConfig {
	return CoercionConfig{
		CurrencySymbols:     []string{"$", "€", "£", "¥", "₹", "USD", "EUR", "GBP", "INR", "Rs."},
		ThousandsSeparators: true,
		PercentAsRatio:      true,
		AllowParentheses:    true,
	}
}

// NewNumericCoercer creates a coercer with the given config
func NewNumericCoercer(config CoercionConfig) *NumericCoercer {
	return &NumericCoercer{config: config}
}

// Coerce converts a raw value to a numeric cell
func (c *NumericCoercer) Coerce(raw string) dataset.Cell {
	if v, ok := c.ParseNumeric(raw); ok {
		return dataset.NumCell(v)
	}
	return dataset.MissingCell()
}

// ParseNumeric parses a decimal number, applying whichever formatting rules are enabled
func (c *NumericCoercer) ParseNumeric(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if c.config.AllowParentheses && strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range c.config.CurrencySymbols {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)

	isPercent := false
	if c.config.PercentAsRatio && strings.HasSuffix(cleanVal, "%") {
		cleanVal = strings.TrimSpace(strings.TrimSuffix(cleanVal, "%"))
		isPercent = true
	}

	if c.config.ThousandsSeparators {
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}
	if !isDecimal(cleanVal) {
		return 0, false
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}

	if isNegative {
		val = -val
	}
	if isPercent {
		val /= 100
	}
	return val, true
}

// isDecimal rejects the non-decimal forms strconv accepts: hex, underscores, inf and nan words
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}
