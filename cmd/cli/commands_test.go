package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"adspend/domain/dataset"
	"adspend/internal/errors"
	"adspend/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func fixtureWorkbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "SKU WISE AD SPEND.xlsx")
	require.NoError(t, testkit.WriteWorkbook(path, "SKU WISE AD SPEND", dataset.SKUAdSpendLayout(), testkit.FixtureRecords(), 0))
	return path
}

func TestColumnsCommand(t *testing.T) {
	out, err := runCLI(t, "columns", fixtureWorkbook(t))
	require.NoError(t, err)

	assert.Contains(t, out, "DEC-25 REVENUE")
	assert.Contains(t, out, "EO")
	assert.NotContains(t, out, "out of range")
}

func TestSummaryCommand(t *testing.T) {
	path := fixtureWorkbook(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "all rows",
			args:     []string{"summary", path},
			contains: []string{"3 of 3 SKUs", "$35,000", "FOO-002", "Signal 2025 mix"},
		},
		{
			name:     "category filter with top",
			args:     []string{"summary", path, "--category", "Apparel", "--top", "1"},
			contains: []string{"1 of 3 SKUs", "$5,000", "APP-001"},
			excludes: []string{"FOO-002"},
		},
		{
			name:     "comma separated values",
			args:     []string{"summary", path, "--sku", "FOO-001,APP-001"},
			contains: []string{"2 of 3 SKUs"},
		},
		{
			name:     "none flag selects nothing",
			args:     []string{"summary", path, "--none", "signal-2025"},
			contains: []string{"No rows match the selected filters"},
		},
		{
			name:     "none flag overrides values",
			args:     []string{"summary", path, "--category", "Footwear", "--none", "category"},
			contains: []string{"No rows match the selected filters"},
		},
		{
			name:     "literal none is a value",
			args:     []string{"summary", path, "--signal-2025", "none"},
			contains: []string{"No rows match the selected filters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSummaryMatchesNoneAsRealValue(t *testing.T) {
	records := testkit.FixtureRecords()
	records[2].Signal = "None"
	path := filepath.Join(t.TempDir(), "SKU WISE AD SPEND.xlsx")
	require.NoError(t, testkit.WriteWorkbook(path, "SKU WISE AD SPEND", dataset.SKUAdSpendLayout(), records, 0))

	out, err := runCLI(t, "summary", path, "--signal-2025", "None")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 3 SKUs")
	assert.Contains(t, out, "APP-001")
}

func TestSummaryRejectsUnknownNoneFilter(t *testing.T) {
	_, err := runCLI(t, "summary", fixtureWorkbook(t), "--none", "region")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestSummaryRejectsBadTop(t *testing.T) {
	_, err := runCLI(t, "summary", fixtureWorkbook(t), "--top", "0")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestSummaryMissingWorkbook(t *testing.T) {
	_, err := runCLI(t, "summary", filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDataUnavailable))
}

func TestSampleCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sample.xlsx")
	stdout, err := runCLI(t, "sample", out, "--skus", "12", "--blank-every", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 12 SKUs")

	summary, err := runCLI(t, "summary", out)
	require.NoError(t, err)
	assert.Contains(t, summary, "12 of 12 SKUs")
}
