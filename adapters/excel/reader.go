package excel

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"adspend/adapters/coercer"
	"adspend/domain/dataset"
	"adspend/internal"
	"adspend/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Loader reads the fixed-layout workbook into a dataset
type Loader struct {
	config  LoaderConfig
	coercer *coercer.NumericCoercer
	logger  *internal.Logger
}

// NewLoader creates a loader for the given layout
func NewLoader(config LoaderConfig, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{
		config:  config,
		coercer: coercer.NewNumericCoercer(config.CoercionConfig),
		logger:  logger,
	}
}

// Layout returns the layout this loader applies
func (l *Loader) Layout() dataset.Layout {
	return l.config.Layout
}

// cellOptions is shared by Load and Inspect so both see the same header text
var cellOptions = excelize.Options{RawCellValue: true}

type resolvedColumn struct {
	spec dataset.ColumnSpec
	pos  int // 0-based index into a worksheet row
}

// Load reads the workbook at path. The header row is stripped, numeric columns are
// coerced and rows with no value in any mapped column are dropped.
func (l *Loader) Load(ctx context.Context, path string) (*dataset.Dataset, error) {
	startTime := time.Now()
	l.logger.Debug("[Loader] Reading workbook: %s", path)

	f, err := l.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, err := l.sheetName(f)
	if err != nil {
		return nil, err
	}

	resolved, err := l.resolveColumns()
	if err != nil {
		return nil, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, errors.Wrapf(errors.SchemaError(err.Error()), "failed to read sheet %q", sheet)
	}
	defer rows.Close()

	headerRow := l.config.Layout.HeaderRow
	var columns []dataset.Column
	var dataRows []dataset.Row
	rowNum, dropped := 0, 0

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNum++
		if rowNum < headerRow {
			continue
		}

		cells, err := rows.Columns(cellOptions)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read row %d", rowNum)
		}

		if rowNum == headerRow {
			columns, err = l.bindHeaders(resolved, cells)
			if err != nil {
				return nil, err
			}
			continue
		}

		row, empty := l.convertRow(resolved, cells)
		if empty {
			dropped++
			continue
		}
		dataRows = append(dataRows, row)
	}
	if err := rows.Error(); err != nil {
		return nil, errors.Wrapf(err, "failed to iterate sheet %q", sheet)
	}

	if columns == nil {
		return nil, errors.SchemaError(fmt.Sprintf("header row %d not found in sheet %q (%d rows)", headerRow, sheet, rowNum))
	}

	l.logger.Info("[Loader] %s loaded in %.2fms (%d columns, %d rows, %d empty rows dropped)",
		path, float64(time.Since(startTime).Nanoseconds())/1e6, len(columns), len(dataRows), dropped)

	return dataset.New(path, columns, dataRows), nil
}

// Inspect reports the header text found under every mapped column without failing on
// schema problems, so a broken workbook can be diagnosed.
func (l *Loader) Inspect(ctx context.Context, path string) ([]HeaderCheck, error) {
	f, err := l.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, err := l.sheetName(f)
	if err != nil {
		return nil, err
	}

	resolved, err := l.resolveColumns()
	if err != nil {
		return nil, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, errors.Wrapf(errors.SchemaError(err.Error()), "failed to read sheet %q", sheet)
	}
	defer rows.Close()

	var header []string
	for rowNum := 1; rows.Next(); rowNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if rowNum == l.config.Layout.HeaderRow {
			header, err = rows.Columns(cellOptions)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read header row %d", rowNum)
			}
			break
		}
	}

	checks := make([]HeaderCheck, len(resolved))
	for i, rc := range resolved {
		check := HeaderCheck{
			Letter:   rc.spec.Letter,
			Field:    rc.spec.Field,
			Kind:     rc.spec.Kind,
			Expected: rc.spec.SourceHeader,
		}
		if rc.pos < len(header) {
			check.InRange = true
			check.Found = strings.TrimSpace(header[rc.pos])
		}
		checks[i] = check
	}
	return checks, nil
}

func (l *Loader) open(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.DataUnavailable(path, err)
	}

	openStart := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.DataUnavailable(path, err)
	}
	l.logger.Trace("[Loader] Workbook opened in %.2fms", float64(time.Since(openStart).Nanoseconds())/1e6)
	return f, nil
}

func (l *Loader) sheetName(f *excelize.File) (string, error) {
	if name := l.config.Layout.Sheet; name != "" {
		idx, err := f.GetSheetIndex(name)
		if err != nil || idx < 0 {
			return "", errors.SchemaError(fmt.Sprintf("sheet %q not found", name))
		}
		return name, nil
	}

	name := f.GetSheetName(0)
	if name == "" {
		return "", errors.SchemaError("workbook has no sheets")
	}
	return name, nil
}

func (l *Loader) resolveColumns() ([]resolvedColumn, error) {
	specs := l.config.Layout.Columns
	if len(specs) == 0 {
		return nil, errors.SchemaError("layout maps no columns")
	}

	seen := make(map[string]string, len(specs))
	resolved := make([]resolvedColumn, len(specs))
	for i, spec := range specs {
		num, err := excelize.ColumnNameToNumber(spec.Letter)
		if err != nil {
			return nil, errors.SchemaError(fmt.Sprintf("invalid column letter %q for %s", spec.Letter, spec.Field))
		}
		if other, dup := seen[spec.Field]; dup {
			return nil, errors.SchemaError(fmt.Sprintf("field %q mapped twice (%s and %s)", spec.Field, other, spec.Letter))
		}
		seen[spec.Field] = spec.Letter
		resolved[i] = resolvedColumn{spec: spec, pos: num - 1}
	}
	return resolved, nil
}

// bindHeaders checks every mapped letter against the header row
func (l *Loader) bindHeaders(resolved []resolvedColumn, header []string) ([]dataset.Column, error) {
	columns := make([]dataset.Column, len(resolved))
	for i, rc := range resolved {
		if rc.pos >= len(header) {
			return nil, errors.SchemaError(fmt.Sprintf("column %s (%s) is out of range: header row has %d columns",
				rc.spec.Letter, rc.spec.Field, len(header)))
		}
		text := strings.TrimSpace(header[rc.pos])
		if text == "" {
			return nil, errors.SchemaError(fmt.Sprintf("column %s (%s) has no header text", rc.spec.Letter, rc.spec.Field))
		}
		if rc.spec.SourceHeader != "" && text != rc.spec.SourceHeader {
			l.logger.Warn("[Loader] Column %s header is %q, expected %q; using it as %s",
				rc.spec.Letter, text, rc.spec.SourceHeader, rc.spec.Field)
		}
		columns[i] = dataset.Column{ColumnSpec: rc.spec, Header: text}
	}
	return columns, nil
}

func (l *Loader) convertRow(resolved []resolvedColumn, cells []string) (dataset.Row, bool) {
	row := make(dataset.Row, len(resolved))
	empty := true
	for i, rc := range resolved {
		raw := ""
		if rc.pos < len(cells) {
			raw = strings.TrimSpace(cells[rc.pos])
		}
		if raw != "" {
			empty = false
		}

		switch rc.spec.Kind {
		case dataset.KindNumeric:
			row[i] = l.coercer.Coerce(raw)
		default:
			row[i] = dataset.TextCell(raw)
		}
	}
	return row, empty
}
