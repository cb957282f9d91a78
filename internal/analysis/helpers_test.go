package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/user/heater_analyzer_go/internal/parser"
)

func newTestTrace(t *testing.T, times, temps []float64) *parser.Trace {
	t.Helper()
	tr := parser.NewTrace("synthetic_12345678901_95C.txt")
	tr.Time = times
	tr.AddChannel(parser.MainChannel, temps)
	require.NoError(t, tr.Validate())
	return tr
}

// heaterCycle builds a 10 Hz trace in milliseconds: 5 s at 25, ramp to 96
// over 20 s, 60 s hold at 96±0.1, ramp back to 25 over 20 s, 5 s at 25.
func heaterCycle() (times, temps []float64) {
	const slope = 0.355 // degC per sample
	add := func(v float64) {
		times = append(times, float64(len(times))*100)
		temps = append(temps, v)
	}
	for i := 0; i < 50; i++ {
		add(25)
	}
	for i := 1; i <= 200; i++ {
		add(25 + slope*float64(i))
	}
	for k := 0; k < 600; k++ {
		if k%2 == 0 {
			add(96.1)
		} else {
			add(95.9)
		}
	}
	for j := 1; j <= 200; j++ {
		add(96 - slope*float64(j))
	}
	for i := 0; i < 50; i++ {
		add(25)
	}
	return times, temps
}
