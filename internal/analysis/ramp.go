package analysis

import (
	"math"

	"github.com/user/heater_analyzer_go/internal/parser"
)

// RampSegment is the slice of a trace searched for one ramp, with the
// interpolated crossing times found in it.
type RampSegment struct {
	StartIndex int // inclusive
	EndIndex   int // inclusive
	Times      []float64
	Temps      []float64

	// TargetTime is the crossing of the low target temperature (40 by default).
	TargetTime float64
	// ReferenceTime is the crossing of the reference temperature; only valid
	// when ReferenceReached is set.
	ReferenceTime    float64
	ReferenceReached bool
}

// Ramp is a segment plus the rate derived from it.
type Ramp struct {
	Segment  RampSegment
	Rate     float64 // degrees per time unit, always non-negative
	Duration float64 // end minus start, signed
}

// CalculateRate returns |ΔT/Δt| and Δt between two temperature/time pairs.
// A zero time delta yields Inf or NaN.
func CalculateRate(tempStart, tempEnd, timeStart, timeEnd float64) (rate, duration float64) {
	duration = timeEnd - timeStart
	rate = math.Abs((tempEnd - tempStart) / duration)
	return rate, duration
}

// FindCooling searches forward from startIndex for the first sample below
// endTemp (the last sample if there is none) and interpolates the crossing of
// targetTemp on the reversed, ascending segment. When the sample at
// startIndex is above refTemp the refTemp crossing is interpolated too.
func FindCooling(trace *parser.Trace, channel string, startIndex int, targetTemp, endTemp, refTemp float64) (RampSegment, error) {
	values, err := trace.Channel(channel)
	if err != nil {
		return RampSegment{}, err
	}

	end, ok := firstIndex(values, startIndex, len(values), func(v float64) bool { return v < endTemp })
	if !ok {
		end = len(values) - 1
	}

	seg := RampSegment{
		StartIndex: startIndex,
		EndIndex:   end,
		Times:      trace.Time[startIndex : end+1],
		Temps:      values[startIndex : end+1],
	}
	timesRev := reversed(seg.Times)
	tempsRev := reversed(seg.Temps)

	seg.TargetTime = Interpolate(targetTemp, tempsRev, timesRev)
	if values[startIndex] > refTemp {
		seg.ReferenceTime = Interpolate(refTemp, tempsRev, timesRev)
		seg.ReferenceReached = true
	}
	return seg, nil
}

// FindHeating takes the first sample at or above startTemp before endIndex
// (index 0 if there is none) as the ramp start and interpolates the crossing
// of targetTemp up to endIndex. When the sample at endIndex is above refTemp
// the refTemp crossing is interpolated too.
func FindHeating(trace *parser.Trace, channel string, endIndex int, startTemp, targetTemp, refTemp float64) (RampSegment, error) {
	values, err := trace.Channel(channel)
	if err != nil {
		return RampSegment{}, err
	}

	start, ok := firstIndex(values, 0, endIndex, func(v float64) bool { return v >= startTemp })
	if !ok {
		start = 0
	}

	seg := RampSegment{
		StartIndex: start,
		EndIndex:   endIndex,
		Times:      trace.Time[start : endIndex+1],
		Temps:      values[start : endIndex+1],
	}
	seg.TargetTime = Interpolate(targetTemp, seg.Temps, seg.Times)
	if values[endIndex] > refTemp {
		seg.ReferenceTime = Interpolate(refTemp, seg.Temps, seg.Times)
		seg.ReferenceReached = true
	}
	return seg, nil
}

// CoolingRamp extracts the cooling ramp after the plateau. Without a
// reference crossing the plateau's last sample is the high point.
func CoolingRamp(trace *parser.Trace, plateau Plateau, cfg Config) (Ramp, error) {
	seg, err := FindCooling(trace, cfg.Channel, plateau.End, cfg.CoolingTargetTemp, cfg.CoolingEndTemp, cfg.ReferenceTemp)
	if err != nil {
		return Ramp{}, err
	}

	r := Ramp{Segment: seg}
	if seg.ReferenceReached {
		r.Rate, r.Duration = CalculateRate(cfg.ReferenceTemp, cfg.CoolingTargetTemp, seg.ReferenceTime, seg.TargetTime)
	} else {
		r.Rate, r.Duration = CalculateRate(seg.Temps[0], cfg.CoolingTargetTemp, seg.Times[0], seg.TargetTime)
	}
	return r, nil
}

// HeatingRamp extracts the heating ramp before the plateau. Without a
// reference crossing the plateau's first sample is the high point.
func HeatingRamp(trace *parser.Trace, plateau Plateau, cfg Config) (Ramp, error) {
	seg, err := FindHeating(trace, cfg.Channel, plateau.Start, cfg.HeatingStartTemp, cfg.HeatingTargetTemp, cfg.ReferenceTemp)
	if err != nil {
		return Ramp{}, err
	}

	r := Ramp{Segment: seg}
	if seg.ReferenceReached {
		r.Rate, r.Duration = CalculateRate(cfg.HeatingTargetTemp, cfg.ReferenceTemp, seg.TargetTime, seg.ReferenceTime)
	} else {
		last := len(seg.Temps) - 1
		r.Rate, r.Duration = CalculateRate(cfg.HeatingTargetTemp, seg.Temps[last], seg.TargetTime, seg.Times[last])
	}
	return r, nil
}
