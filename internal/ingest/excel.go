package ingest

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"athletepulse/internal/dataprocessing"
)

// ExcelSource reads a table from one sheet of an .xlsx workbook.
type ExcelSource struct {
	Table string
	Path  string
	// Sheet defaults to the first sheet of the workbook.
	Sheet string
}

// Name implements Source.
func (s ExcelSource) Name() string {
	return s.Table
}

// Load implements Source.
func (s ExcelSource) Load(ctx context.Context) (dataprocessing.Table, error) {
	if err := ctx.Err(); err != nil {
		return dataprocessing.Table{}, err
	}

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return dataprocessing.Table{}, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return dataprocessing.Table{}, fmt.Errorf("sheet %q not found in %s", sheet, s.Path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataprocessing.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return tableFromRows(s.Table, rows), nil
}
