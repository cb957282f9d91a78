package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/heater_analyzer_go/internal/analysis"
	"github.com/user/heater_analyzer_go/internal/parser"
)

// RatesPlotKey is the plot image key of the batch rates overview.
const RatesPlotKey = "rates_overview"

// PlotOptions sets the image size in points and the temperature axis range.
type PlotOptions struct {
	Width  float64
	Height float64
	YMin   float64
	YMax   float64
}

// DefaultPlotOptions is a 12 x 8 inch figure with a 20-120 degC axis.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 864, Height: 576, YMin: 20, YMax: 120}
}

var (
	plateauColor = color.RGBA{R: 255, A: 255}
	heatingColor = color.RGBA{R: 255, G: 165, A: 255}
	coolingColor = color.RGBA{B: 255, A: 255}
)

// CreateTracePlot draws the synchronized channel in black with the plateau
// samples highlighted in red and returns the PNG bytes.
func CreateTracePlot(trace *parser.Trace, channel string, plateau []int, title string, opts PlotOptions) ([]byte, error) {
	if trace == nil || trace.Len() == 0 {
		return nil, fmt.Errorf("no trace to plot")
	}
	values, err := trace.Channel(channel)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Temperature (degC)"
	if opts.YMax > opts.YMin {
		p.Y.Min = opts.YMin
		p.Y.Max = opts.YMax
	}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if !isFinite(v) || !isFinite(trace.Time[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: trace.Time[i], Y: v})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create line for %s: %w", channel, err)
	}
	line.Color = color.Black
	line.LineStyle.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(channel, line)

	if len(plateau) > 0 {
		plateauPts := make(plotter.XYs, 0, len(plateau))
		for _, idx := range plateau {
			if idx < 0 || idx >= len(values) {
				continue
			}
			plateauPts = append(plateauPts, plotter.XY{X: trace.Time[idx], Y: values[idx]})
		}
		scatter, err := plotter.NewScatter(plateauPts)
		if err != nil {
			return nil, fmt.Errorf("failed to create plateau scatter: %w", err)
		}
		scatter.GlyphStyle.Color = plateauColor
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(scatter)
		p.Legend.Add("plateau", scatter)
	}

	p.Legend.Top = true
	return renderPNG(p, opts)
}

// CreateRatesPlot draws heating and cooling rate for every recorded run,
// in table order.
func CreateRatesPlot(table *analysis.ResultsTable, opts PlotOptions) ([]byte, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, fmt.Errorf("no results to plot")
	}

	p := plot.New()
	p.Title.Text = "Heating and Cooling Rates"
	p.X.Label.Text = "Run"
	p.Y.Label.Text = "Rate (degC/s)"
	p.X.Min = 0
	p.X.Max = float64(len(table.Rows) + 1)
	p.X.Tick.Marker = plot.ConstantTicks(runTicks(table))
	p.Add(plotter.NewGrid())

	series := []struct {
		label string
		color color.Color
		value func(analysis.RunRecord) float64
	}{
		{"Heating rate", heatingColor, func(r analysis.RunRecord) float64 { return r.HeatingRate }},
		{"Cooling rate", coolingColor, func(r analysis.RunRecord) float64 { return r.CoolingRate }},
	}
	plotted := false
	for _, s := range series {
		pts := make(plotter.XYs, 0, len(table.Rows))
		for i, row := range table.Rows {
			v := s.value(row.Record)
			if !isFinite(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(i + 1), Y: v})
		}
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s series: %w", s.label, err)
		}
		line.Color = s.color
		line.LineStyle.Width = vg.Points(1.5)
		points.GlyphStyle.Color = s.color
		p.Add(line, points)
		p.Legend.Add(s.label, line, points)
		plotted = true
	}
	if !plotted {
		return nil, fmt.Errorf("no finite rates to plot")
	}

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)
	return renderPNG(p, opts)
}

// runTicks labels each run position with its instrument ID, or its file
// index when the ID is missing.
func runTicks(table *analysis.ResultsTable) []plot.Tick {
	ticks := make([]plot.Tick, 0, len(table.Rows))
	for i, row := range table.Rows {
		label := row.Record.InstrumentID
		if label == "" {
			label = fmt.Sprintf("#%d", row.Index)
		}
		ticks = append(ticks, plot.Tick{Value: float64(i + 1), Label: label})
	}
	return ticks
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func renderPNG(p *plot.Plot, opts PlotOptions) ([]byte, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultPlotOptions()
	}
	writer, err := p.WriterTo(vg.Points(opts.Width), vg.Points(opts.Height), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}
