package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/IvanShishkin/dirsheet/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ColumnWidths returns, per column, the longest rendered value (header
// included) in characters plus 2, capped at excelize.MaxColumnWidth
func ColumnWidths(records []models.FileRecord) []float64 {
	headers := models.Columns()
	maxLen := make([]int, len(headers))
	for i, h := range headers {
		maxLen[i] = utf8.RuneCountInString(h)
	}

	for _, rec := range records {
		for i, cell := range rec.Strings() {
			if n := utf8.RuneCountInString(cell); n > maxLen[i] {
				maxLen[i] = n
			}
		}
	}

	widths := make([]float64, len(maxLen))
	for i, n := range maxLen {
		widths[i] = min(float64(n+2), excelize.MaxColumnWidth)
	}
	return widths
}

// writeXLSX writes a single-sheet workbook: header row, one row per record,
// auto-sized columns
func writeXLSX(w io.Writer, records []models.FileRecord, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	// Widths must be set before the first row is streamed
	for i, width := range ColumnWidths(records) {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	headers := models.Columns()
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, rec.Values()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
