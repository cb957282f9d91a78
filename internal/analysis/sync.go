package analysis

import (
	"fmt"
	"math"

	"github.com/user/heater_analyzer_go/internal/parser"
)

// SyncResult is the time origin of a run in raw time units.
type SyncResult struct {
	Offset     float64
	StartIndex int // first sample above the lower bound
	EndIndex   int // first sample above the upper bound, exclusive
}

// FindSyncOffset locates the time at which the channel reaches target inside
// the window opened by the first sample above lower and closed by the first
// sample above upper.
func FindSyncOffset(trace *parser.Trace, channel string, lower, upper, target float64) (SyncResult, error) {
	values, err := trace.Channel(channel)
	if err != nil {
		return SyncResult{}, err
	}

	start, ok := firstIndex(values, 0, len(values), func(v float64) bool { return v > lower })
	if !ok {
		return SyncResult{}, fmt.Errorf("%w: %s never exceeds %.1f", ErrSyncNotFound, trace.SourceFile, lower)
	}
	end, ok := firstIndex(values, 0, len(values), func(v float64) bool { return v > upper })
	if !ok {
		return SyncResult{}, fmt.Errorf("%w: %s never exceeds %.1f", ErrSyncNotFound, trace.SourceFile, upper)
	}
	if end <= start {
		return SyncResult{}, fmt.Errorf("%w: %s jumps from below %.1f to above %.1f in one sample", ErrSyncNotFound, trace.SourceFile, lower, upper)
	}

	offset := Interpolate(target, values[start:end], trace.Time[start:end])
	if math.IsNaN(offset) {
		return SyncResult{}, fmt.Errorf("%w: %s has no finite crossing in the sync window", ErrSyncNotFound, trace.SourceFile)
	}
	return SyncResult{Offset: offset, StartIndex: start, EndIndex: end}, nil
}

// Synchronize rebases the trace so the sync crossing is t=0 and rescales the
// time column. The input trace is left untouched.
func Synchronize(trace *parser.Trace, cfg Config) (*parser.Trace, SyncResult, error) {
	res, err := FindSyncOffset(trace, cfg.Channel, cfg.SyncLower, cfg.SyncUpper, cfg.SyncTarget)
	if err != nil {
		return nil, SyncResult{}, err
	}

	scale := cfg.TimeScale
	if scale == 0 {
		scale = 1
	}
	rebased := make([]float64, trace.Len())
	for i, t := range trace.Time {
		rebased[i] = (t - res.Offset) / scale
	}
	return trace.WithTime(rebased), res, nil
}
