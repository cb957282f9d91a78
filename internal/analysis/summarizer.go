package analysis

import (
	"fmt"

	"github.com/user/heater_analyzer_go/internal/parser"
)

// AnalyzeRun takes one loaded trace through sync, plateau detection and ramp
// extraction and builds its RunRecord.
//
// Errors wrapping ErrSyncNotFound must stop the batch. ErrEmptyPlateau only
// drops this run. A plateau shorter than the minimum duration is reported in
// Warnings and the record is still produced.
func AnalyzeRun(trace *parser.Trace, cfg Config) (*RunResult, error) {
	res := &RunResult{State: StateLoaded, Warnings: make([]string, 0)}
	res.Record.InstrumentID = trace.InstrumentID
	res.Record.TempCondition = trace.TempCondition

	synced, syncRes, err := Synchronize(trace, cfg)
	if err != nil {
		res.State = StateAborted
		return res, err
	}
	res.Trace = synced
	res.Sync = syncRes
	res.State = StateSynchronized

	plateau, err := DetectPlateau(synced, cfg)
	if err != nil {
		res.State = StateAborted
		return res, err
	}
	res.Plateau = plateau
	res.State = StatePlateauDetected
	if !plateau.Stable {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%v: plateau achieved for the max: %g s (minimum %g s)",
			ErrPlateauUnstable, plateau.Duration, cfg.MinPlateauDuration))
	}

	cooling, err := CoolingRamp(synced, plateau, cfg)
	if err != nil {
		res.State = StateAborted
		return res, fmt.Errorf("cooling ramp: %w", err)
	}
	heating, err := HeatingRamp(synced, plateau, cfg)
	if err != nil {
		res.State = StateAborted
		return res, fmt.Errorf("heating ramp: %w", err)
	}
	res.Cooling = cooling
	res.Heating = heating
	res.State = StateRampsExtracted

	res.Record.MinTemp = plateau.MinTemp
	res.Record.MaxTemp = plateau.MaxTemp
	res.Record.MeanTemp = plateau.MeanTemp
	res.Record.HeatingRate = heating.Rate
	res.Record.HeatingTime = heating.Duration
	res.Record.CoolingRate = cooling.Rate
	res.Record.CoolingTime = cooling.Duration
	res.State = StateRecorded
	return res, nil
}
