package analysis

import "github.com/user/heater_analyzer_go/internal/parser"

// RunState tracks how far a file got through the pipeline.
type RunState int

const (
	StateLoaded RunState = iota
	StateSynchronized
	StatePlateauDetected
	StateRampsExtracted
	StateRecorded
	StateAborted
)

// String returns the state name used in log lines.
func (s RunState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateSynchronized:
		return "synchronized"
	case StatePlateauDetected:
		return "plateau-detected"
	case StateRampsExtracted:
		return "ramps-extracted"
	case StateRecorded:
		return "recorded"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// RunRecord is the summary row for one heater test file.
type RunRecord struct {
	InstrumentID  string
	TempCondition string
	MinTemp       float64
	MaxTemp       float64
	MeanTemp      float64
	HeatingRate   float64 // degC/s
	HeatingTime   float64 // s
	CoolingRate   float64 // degC/s
	CoolingTime   float64 // s
}

// RunResult keeps the intermediate products of one run alongside its record,
// so plots and reports can be drawn without re-running the pipeline.
type RunResult struct {
	State    RunState
	Record   RunRecord
	Trace    *parser.Trace // synchronized
	Sync     SyncResult
	Plateau  Plateau
	Heating  Ramp
	Cooling  Ramp
	Warnings []string
}

// TableRow is one recorded run in the results table.
type TableRow struct {
	Index      int // position of the file in discovery order
	SourceFile string
	Record     RunRecord
}

// ResultsTable is the append-only output of a batch.
type ResultsTable struct {
	BatchID        string
	Rows           []TableRow
	AnalysisErrors []string
}

// NewResultsTable returns an empty table for the batch batchID.
func NewResultsTable(batchID string) *ResultsTable {
	return &ResultsTable{
		BatchID:        batchID,
		Rows:           make([]TableRow, 0),
		AnalysisErrors: make([]string, 0),
	}
}

// Append adds a row at the end of the table.
func (t *ResultsTable) Append(index int, sourceFile string, rec RunRecord) {
	t.Rows = append(t.Rows, TableRow{Index: index, SourceFile: sourceFile, Record: rec})
}
