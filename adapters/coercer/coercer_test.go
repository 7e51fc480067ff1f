package coercer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type parseCase struct {
	name     string
	input    string
	expected float64
	ok       bool
}

func runParseCases(t *testing.T, c *NumericCoercer, tests []parseCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.ParseNumeric(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 1e-12)
			}
		})
	}
}

func TestParseNumericDefaultIsPlainDecimal(t *testing.T) {
	c := NewNumericCoercer(DefaultCoercionConfig())

	runParseCases(t, c, []parseCase{
		{"plain integer", "1200", 1200, true},
		{"raw float", "0.153846153846154", 0.153846153846154, true},
		{"scientific", "1.5E+3", 1500, true},
		{"negative sign", "-12.5", -12.5, true},
		{"explicit plus", "+7", 7, true},
		{"padded", "  42  ", 42, true},
		{"leading dot", ".5", 0.5, true},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"dash placeholder", "-", 0, false},
		{"excel error", "#DIV/0!", 0, false},
		{"text", "N/A", 0, false},
		{"nan literal", "NaN", 0, false},
		{"inf literal", "Inf", 0, false},
		{"hex", "0x10", 0, false},
		{"underscores", "1_000", 0, false},
		{"currency", "$1,234", 0, false},
		{"thousands separators", "1,234", 0, false},
		{"space separated", "1 234", 0, false},
		{"parentheses negative", "(500)", 0, false},
		{"percent", "12.5%", 0, false},
		{"rupee prefix", "Rs.99", 0, false},
		{"currency code", "USD 10", 0, false},
	})
}

func TestParseNumericLenient(t *testing.T) {
	c := NewNumericCoercer(LenientCoercionConfig())

	runParseCases(t, c, []parseCase{
		{"plain", "1200", 1200, true},
		{"thousands separators", "1,234,567.5", 1234567.5, true},
		{"currency", "$45,000", 45000, true},
		{"rupee", "₹ 1,200", 1200, true},
		{"rupee prefix", "Rs.99", 99, true},
		{"parentheses negative", "(250)", -250, true},
		{"percent", "12.5%", 0.125, true},
		{"only currency", "$", 0, false},
		{"text", "N/A", 0, false},
	})
}

func TestRulesAreIndependent(t *testing.T) {
	c := NewNumericCoercer(CoercionConfig{ThousandsSeparators: true})

	got, ok := c.ParseNumeric("1,200")
	assert.True(t, ok)
	assert.Equal(t, 1200.0, got)

	_, ok = c.ParseNumeric("12%")
	assert.False(t, ok, "percent needs its own rule")

	_, ok = c.ParseNumeric("$5")
	assert.False(t, ok, "no currency symbols configured")
}

func TestCoerce(t *testing.T) {
	c := NewNumericCoercer(DefaultCoercionConfig())

	cell := c.Coerce("3.5")
	assert.False(t, cell.IsMissing())
	assert.Equal(t, 3.5, cell.Num)

	assert.True(t, c.Coerce("not a number").IsMissing())
	assert.True(t, c.Coerce("$3.5").IsMissing())
}
