package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/user/heater_analyzer_go/internal/analysis"
	"github.com/user/heater_analyzer_go/internal/log"
)

// ResultColumns is the header of the results table. The leading empty
// column holds the file's discovery index.
var ResultColumns = []string{
	"", "Instrument_ID", "Temp_condition", "Min degC", "Max degC", "Mean degC",
	"Heating rate (degC/s)", "Heating time (s)", "Cooling rate (deg/s)", "Cooling time (s)",
}

// xlsxSheet is the worksheet that receives the results table.
const xlsxSheet = "Results"

// formatFloat writes NaN as an empty cell and infinities as inf/-inf.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// recordFields returns the numeric part of a row in column order.
func recordFields(rec analysis.RunRecord) []float64 {
	return []float64{
		rec.MinTemp, rec.MaxTemp, rec.MeanTemp,
		rec.HeatingRate, rec.HeatingTime,
		rec.CoolingRate, rec.CoolingTime,
	}
}

// TableRecords renders the results table as string rows, header first.
func TableRecords(table *analysis.ResultsTable) [][]string {
	records := make([][]string, 0, len(table.Rows)+1)
	records = append(records, ResultColumns)
	for _, row := range table.Rows {
		rec := []string{strconv.Itoa(row.Index), row.Record.InstrumentID, row.Record.TempCondition}
		for _, v := range recordFields(row.Record) {
			rec = append(rec, formatFloat(v))
		}
		records = append(records, rec)
	}
	return records
}

// WriteResultsCSV writes the results table to path, replacing any existing file.
func WriteResultsCSV(path string, table *analysis.ResultsTable) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(TableRecords(table)); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	log.Infow("results written", "path", path, "rows", len(table.Rows))
	return file.Close()
}

// WriteResultsXLSX writes the results table to a single-sheet workbook.
// Numeric cells stay numeric; NaN cells are left blank.
func WriteResultsXLSX(path string, table *analysis.ResultsTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(ResultColumns))
	for i, c := range ResultColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		cells := []interface{}{row.Index, row.Record.InstrumentID, row.Record.TempCondition}
		for _, v := range recordFields(row.Record) {
			switch {
			case math.IsNaN(v):
				cells = append(cells, nil)
			case math.IsInf(v, 0):
				cells = append(cells, formatFloat(v))
			default:
				cells = append(cells, v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if table.BatchID != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: "Heater test results", Identifier: table.BatchID}); err != nil {
			return fmt.Errorf("failed to set document properties: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	log.Infow("workbook written", "path", path, "rows", len(table.Rows))
	return nil
}
