package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseOptions controls how a heater test file is split into rows.
type ParseOptions struct {
	Delimiter   rune
	HeaderLines int // leading records to skip
	FooterLines int // trailing records to discard
}

// DefaultParseOptions matches the instrument export: one header line, one
// footer line, comma separated.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Delimiter: ',', HeaderLines: 1, FooterLines: 1}
}

// ParseTraceFile reads a heater test file into a Trace. Filename metadata is
// extracted as well; missing metadata is recorded in ParseErrors, not returned.
func ParseTraceFile(path string, opts ParseOptions) (*Trace, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer file.Close()

	trace, err := ParseTrace(file, filepath.Base(path), opts)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	if id, err := ExtractInstrumentID(name); err != nil {
		trace.ParseErrors = append(trace.ParseErrors, fmt.Sprintf("Instrument ID not found in the file name: %s", name))
	} else {
		trace.InstrumentID = id
	}
	if cond, err := ExtractTempCondition(name); err != nil {
		trace.ParseErrors = append(trace.ParseErrors, fmt.Sprintf("No condition in the txt file: %s", name))
	} else {
		trace.TempCondition = cond
	}
	return trace, nil
}

// ParseTrace reads delimited rows of ch1, ch2, main, ch4, time from r.
// Rows that cannot be converted are skipped and reported in ParseErrors.
func ParseTrace(r io.Reader, sourceFile string, opts ParseOptions) (*Trace, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // footer and header rarely have five fields
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read trace data from %s: %w", sourceFile, err)
	}

	trace := NewTrace(sourceFile)
	if opts.HeaderLines+opts.FooterLines >= len(allRows) {
		return nil, fmt.Errorf("%w: %s has %d rows in total", ErrTraceTooShort, sourceFile, len(allRows))
	}
	dataRows := allRows[opts.HeaderLines : len(allRows)-opts.FooterLines]

	columns := make([][]float64, NumFields)
	for i := range columns {
		columns[i] = make([]float64, 0, len(dataRows))
	}

rows:
	for rowIdx, row := range dataRows {
		lineNo := rowIdx + opts.HeaderLines + 1
		if len(row) < NumFields {
			trace.ParseErrors = append(trace.ParseErrors, fmt.Sprintf("Warning: %s row %d has %d fields, expected %d. Row skipped.", sourceFile, lineNo, len(row), NumFields))
			continue
		}
		values := make([]float64, NumFields)
		for i := 0; i < NumFields; i++ {
			val, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				trace.ParseErrors = append(trace.ParseErrors, fmt.Sprintf("Error converting value '%s' for %s, row %d. Row skipped. Error: %v", row[i], ColumnNames[i], lineNo, err))
				continue rows
			}
			if math.IsNaN(val) || math.IsInf(val, 0) {
				trace.ParseErrors = append(trace.ParseErrors, fmt.Sprintf("Non-finite value '%s' for %s, row %d. Row skipped.", row[i], ColumnNames[i], lineNo))
				continue rows
			}
			values[i] = val
		}
		for i, v := range values {
			columns[i] = append(columns[i], v)
		}
	}

	for i, name := range ColumnNames {
		if name == TimeColumn {
			trace.Time = columns[i]
			continue
		}
		trace.AddChannel(name, columns[i])
	}

	if err := trace.Validate(); err != nil {
		return nil, err
	}
	return trace, nil
}
