// =============================================================================
// Scan to CSV - XLSX Capture Report
// =============================================================================
//
// This module renders parsed capture files as a workbook for the back
// office. The workbook has two sheets:
//
//   | Sheet  | Columns                                                        |
//   |--------|----------------------------------------------------------------|
//   | Scans  | File, Date, Time, TransactionNo, ShopNo, PosNo, CasherCode,    |
//   |        | CasherName (one row per record)                                |
//   | Errors | File, Error (one row per file that could not be parsed)        |
//
// =============================================================================

package xlsxreport

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/scan-to-csv/internal/csvparser"
)

// Sheet names.
const (
	ScansSheet  = "Scans"
	ErrorsSheet = "Errors"
)

// ScanHeaders is the header row of the Scans sheet.
var ScanHeaders = []string{
	"File", "Date", "Time", "TransactionNo", "ShopNo", "PosNo", "CasherCode", "CasherName",
}

// ErrorHeaders is the header row of the Errors sheet.
var ErrorHeaders = []string{"File", "Error"}

// Summary counts what went into a report.
type Summary struct {
	Files   int
	Records int
	Errors  int
}

// =============================================================================
// REPORT GENERATION
// =============================================================================

// Write renders files as an XLSX workbook to w.
//
// PARAMETERS:
//   - files: Parsed capture files, in the order rows should appear.
//   - w: Destination for the workbook bytes.
//
// RETURNS:
//   - Counts of files, records and unparseable files.
//   - An error if the workbook cannot be built or written.
func Write(files []csvparser.File, w io.Writer) (Summary, error) {
	f := excelize.NewFile()
	defer f.Close()

	sum, err := build(f, files)
	if err != nil {
		return Summary{}, err
	}

	if err := f.Write(w); err != nil {
		return Summary{}, fmt.Errorf("failed to write workbook: %w", err)
	}
	return sum, nil
}

func build(f *excelize.File, files []csvparser.File) (Summary, error) {
	if err := f.SetSheetName(f.GetSheetName(0), ScansSheet); err != nil {
		return Summary{}, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(ErrorsSheet); err != nil {
		return Summary{}, fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := writeHeader(f, ScansSheet, ScanHeaders, bold); err != nil {
		return Summary{}, err
	}
	if err := writeHeader(f, ErrorsSheet, ErrorHeaders, bold); err != nil {
		return Summary{}, err
	}

	sum := Summary{Files: len(files)}
	scanRow, errRow := 2, 2
	for _, file := range files {
		name := filepath.Base(file.Path)

		if file.Err != nil {
			if err := setRow(f, ErrorsSheet, errRow, []any{name, file.Err.Error()}); err != nil {
				return Summary{}, err
			}
			errRow++
			sum.Errors++
			continue
		}

		for _, rec := range file.Records {
			row := []any{name}
			for _, field := range rec.Fields() {
				row = append(row, field)
			}
			if err := setRow(f, ScansSheet, scanRow, row); err != nil {
				return Summary{}, err
			}
			scanRow++
			sum.Records++
		}
	}

	if err := f.SetColWidth(ScansSheet, "A", "A", 26); err != nil {
		return Summary{}, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(ErrorsSheet, "A", "B", 40); err != nil {
		return Summary{}, fmt.Errorf("failed to set column width: %w", err)
	}
	return sum, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := setRow(f, sheet, 1, row); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header on %s: %w", sheet, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}
	// String values stay text cells, so codes like "001" keep their zeros.
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
