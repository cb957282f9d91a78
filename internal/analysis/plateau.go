package analysis

import (
	"fmt"
	"math"

	"github.com/user/heater_analyzer_go/internal/parser"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Plateau is the stable hold of a run. Indexes may have gaps; the first and
// last entries are its temporal boundaries.
type Plateau struct {
	Indexes  []int
	Start    int
	End      int
	Duration float64 // time[End] - time[Start] in synchronized units
	Stable   bool    // Duration exceeded the configured minimum
	MinTemp  float64
	MaxTemp  float64
	MeanTemp float64
}

// RollingMean returns the trailing mean over window samples at each index.
// Early indices average the samples available so far. Non-finite readings
// are left out of the mean; a window holding none gives NaN.
func RollingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	count := 0
	for i, v := range values {
		if isFinite(v) {
			sum += v
			count++
		}
		if i >= window {
			if old := values[i-window]; isFinite(old) {
				sum -= old
				count--
			}
		}
		if count == 0 {
			sum = 0
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FindPlateauIndexes returns the indices whose value is above minTemp and
// within threshold of the trailing rolling mean.
func FindPlateauIndexes(values []float64, window int, threshold, minTemp float64) []int {
	mean := RollingMean(values, window)
	indexes := make([]int, 0)
	for i, v := range values {
		if math.Abs(mean[i]-v) <= threshold && v > minTemp {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// DetectPlateau runs the stability test over a synchronized trace and
// summarizes the plateau. An empty index set is an error; a short plateau is
// reported through Stable and left to the caller.
func DetectPlateau(trace *parser.Trace, cfg Config) (Plateau, error) {
	values, err := trace.Channel(cfg.Channel)
	if err != nil {
		return Plateau{}, err
	}

	indexes := FindPlateauIndexes(values, cfg.PlateauWindow, cfg.PlateauThreshold, cfg.PlateauMinTemp)
	if len(indexes) == 0 {
		return Plateau{}, fmt.Errorf("%w: %s has no sample above %.1f within %.2f of its rolling mean",
			ErrEmptyPlateau, trace.SourceFile, cfg.PlateauMinTemp, cfg.PlateauThreshold)
	}

	temps := make([]float64, len(indexes))
	for i, idx := range indexes {
		temps[i] = values[idx]
	}

	p := Plateau{
		Indexes:  indexes,
		Start:    indexes[0],
		End:      indexes[len(indexes)-1],
		MinTemp:  floats.Min(temps),
		MaxTemp:  floats.Max(temps),
		MeanTemp: stat.Mean(temps, nil),
	}
	p.Duration = trace.Time[p.End] - trace.Time[p.Start]
	p.Stable = p.Duration > cfg.MinPlateauDuration
	return p, nil
}
