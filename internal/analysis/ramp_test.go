package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRate(t *testing.T) {
	rate, dur := CalculateRate(95, 40, 10, 25)
	assert.InDelta(t, 55.0/15.0, rate, 1e-12)
	assert.Equal(t, 15.0, dur)

	rate, dur = CalculateRate(40, 95, 0, 10)
	assert.Equal(t, 5.5, rate)
	assert.Equal(t, 10.0, dur)

	// reversed times give a negative duration but a positive rate
	rate, dur = CalculateRate(40, 95, 10, 0)
	assert.Equal(t, 5.5, rate)
	assert.Equal(t, -10.0, dur)
}

func TestCalculateRateZeroDelta(t *testing.T) {
	rate, dur := CalculateRate(40, 95, 5, 5)
	assert.True(t, math.IsInf(rate, 1))
	assert.Equal(t, 0.0, dur)

	rate, _ = CalculateRate(40, 40, 5, 5)
	assert.True(t, math.IsNaN(rate))
}

// coolingFrom90 holds 90 for five samples then drops 5 degC per second to 30.
func coolingFrom90() (times, temps []float64) {
	for i := 0; i < 5; i++ {
		temps = append(temps, 90)
	}
	for j := 1; j <= 12; j++ {
		temps = append(temps, 90-5*float64(j))
	}
	for i := range temps {
		times = append(times, float64(i))
	}
	return times, temps
}

// heatingTo90 sits at 30 for two samples then climbs 5 degC per second to 90.
func heatingTo90() (times, temps []float64) {
	temps = []float64{30, 30}
	for j := 1; j <= 12; j++ {
		temps = append(temps, 30+5*float64(j))
	}
	for i := range temps {
		times = append(times, float64(i))
	}
	return times, temps
}

func TestFindCooling(t *testing.T) {
	times, temps := coolingFrom90()
	tr := newTestTrace(t, times, temps)

	seg, err := FindCooling(tr, "main", 4, 40, 38, 95)
	require.NoError(t, err)
	assert.Equal(t, 4, seg.StartIndex)
	assert.Equal(t, 15, seg.EndIndex) // 35 degC
	assert.Len(t, seg.Temps, 12)
	assert.Equal(t, 14.0, seg.TargetTime)
	assert.False(t, seg.ReferenceReached)
}

func TestFindCoolingNeverBelowEnd(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	temps := []float64{99, 90, 70, 50, 45}
	tr := newTestTrace(t, times, temps)

	seg, err := FindCooling(tr, "main", 0, 40, 38, 95)
	require.NoError(t, err)
	assert.Equal(t, 4, seg.EndIndex)
	assert.True(t, seg.ReferenceReached)
	assert.InDelta(t, 0.4444444444, seg.ReferenceTime, 1e-9)
	// 40 is below everything in the window so the crossing clamps to the end
	assert.Equal(t, 4.0, seg.TargetTime)
}

func TestFindHeating(t *testing.T) {
	times, temps := heatingTo90()
	tr := newTestTrace(t, times, temps)

	seg, err := FindHeating(tr, "main", 13, 36, 40, 95)
	require.NoError(t, err)
	assert.Equal(t, 3, seg.StartIndex) // 40 degC, first at or above 36
	assert.Equal(t, 13, seg.EndIndex)
	assert.Equal(t, 3.0, seg.TargetTime)
	assert.False(t, seg.ReferenceReached)
}

func TestFindHeatingNoSampleAboveStart(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	temps := []float64{20, 25, 30, 35, 98}
	tr := newTestTrace(t, times, temps)

	seg, err := FindHeating(tr, "main", 4, 36, 40, 95)
	require.NoError(t, err)
	assert.Equal(t, 0, seg.StartIndex)
	assert.True(t, seg.ReferenceReached)
	assert.InDelta(t, 3+5.0/63.0, seg.TargetTime, 1e-12)
	assert.InDelta(t, 3+60.0/63.0, seg.ReferenceTime, 1e-12)
}

func TestRampsWithoutReferenceUsePlateauBoundary(t *testing.T) {
	cfg := DefaultConfig()

	times, temps := coolingFrom90()
	tr := newTestTrace(t, times, temps)
	cooling, err := CoolingRamp(tr, Plateau{Start: 0, End: 4}, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, cooling.Rate, 1e-12)
	assert.InDelta(t, 10.0, cooling.Duration, 1e-12)

	times, temps = heatingTo90()
	tr = newTestTrace(t, times, temps)
	heating, err := HeatingRamp(tr, Plateau{Start: 13, End: 13}, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, heating.Rate, 1e-12)
	assert.InDelta(t, 10.0, heating.Duration, 1e-12)
}

func TestRampRateTimesDurationRecoversDelta(t *testing.T) {
	cfg := DefaultConfig()
	times, temps := heaterCycle()
	synced, _, err := Synchronize(newTestTrace(t, times, temps), cfg)
	require.NoError(t, err)
	p, err := DetectPlateau(synced, cfg)
	require.NoError(t, err)

	heating, err := HeatingRamp(synced, p, cfg)
	require.NoError(t, err)
	cooling, err := CoolingRamp(synced, p, cfg)
	require.NoError(t, err)

	require.True(t, heating.Segment.ReferenceReached)
	require.True(t, cooling.Segment.ReferenceReached)
	delta := cfg.ReferenceTemp - cfg.HeatingTargetTemp
	assert.InDelta(t, delta, heating.Rate*math.Abs(heating.Duration), 1e-9)
	assert.InDelta(t, delta, cooling.Rate*math.Abs(cooling.Duration), 1e-9)
}
