package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/user/heater_analyzer_go/internal/analysis"
	"github.com/user/heater_analyzer_go/internal/config"
	"github.com/user/heater_analyzer_go/internal/log"
	"github.com/user/heater_analyzer_go/internal/parser"
	"github.com/user/heater_analyzer_go/internal/report"
)

// RunHook is called for every recorded run with its synchronized trace and
// plateau. A hook error is logged and does not affect the results table.
type RunHook func(sourceFile string, res *analysis.RunResult) error

// BatchResult is everything one pass over the input directory produced.
type BatchResult struct {
	Table      *analysis.ResultsTable
	PlotImages map[string][]byte
}

// App drives a batch: discovery, the per-file pipeline and the outputs.
type App struct {
	mu    sync.Mutex
	cfg   *config.Config
	hooks []RunHook
}

// NewApp creates the batch driver for cfg.
func NewApp(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

// AddHook registers a per-run hook.
func (a *App) AddHook(h RunHook) {
	a.hooks = append(a.hooks, h)
}

// SetConfig swaps the configuration used by the next batch.
func (a *App) SetConfig(cfg *config.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = cfg
}

func (a *App) config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

func (a *App) sendStatus(format string, args ...interface{}) {
	log.Infof(format, args...)
}

func (a *App) sendWarning(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// RunBatch processes every trace file in the input directory and writes the
// outputs. A sync failure stops the batch before anything is written.
func (a *App) RunBatch() (*BatchResult, error) {
	cfg := a.config()

	files, err := parser.FindTraceFiles(cfg.Input.Dir, cfg.Input.Extension)
	if err != nil {
		return nil, err
	}
	a.sendStatus("Found %d %s files in %s", len(files), cfg.Input.Extension, cfg.Input.Dir)

	result, err := a.ProcessFiles(cfg, files)
	if err != nil {
		return nil, err
	}
	if err := a.WriteOutputs(cfg, result); err != nil {
		return result, err
	}
	return result, nil
}

// ProcessFiles runs the pipeline over files in order and fills the results
// table. It returns an error wrapping analysis.ErrSyncNotFound as soon as
// one file fails to synchronize.
func (a *App) ProcessFiles(cfg *config.Config, files []string) (*BatchResult, error) {
	batchID := uuid.NewString()
	result := &BatchResult{
		Table:      analysis.NewResultsTable(batchID),
		PlotImages: make(map[string][]byte),
	}
	logger := log.With("batch", batchID)
	opts := cfg.ParseOptions()

	for i, file := range files {
		name := filepath.Base(file)
		logger.Debugw("processing file", "index", i, "file", name)

		trace, err := parser.ParseTraceFile(file, opts)
		if err != nil {
			msg := fmt.Sprintf("Skipping %s: %v", name, err)
			a.sendWarning("%s", msg)
			result.Table.AnalysisErrors = append(result.Table.AnalysisErrors, msg)
			continue
		}
		for _, e := range trace.ParseErrors {
			a.sendWarning("%s", e)
		}

		res, err := analysis.AnalyzeRun(trace, cfg.Analysis)
		if err != nil {
			if errors.Is(err, analysis.ErrSyncNotFound) {
				a.sendStatus("Heater test failed for %s", name)
				return nil, fmt.Errorf("batch %s aborted at %s: %w", batchID, name, err)
			}
			msg := fmt.Sprintf("Test failed for %s: %v", name, err)
			a.sendWarning("%s", msg)
			result.Table.AnalysisErrors = append(result.Table.AnalysisErrors, msg)
			continue
		}

		if res.Plateau.Stable {
			a.sendStatus("Heater test successful for %s", name)
		} else {
			a.sendWarning("Test failed due to insufficient temperature stability. Plateau achieved for the max: %g", res.Plateau.Duration)
		}
		for _, w := range res.Warnings {
			result.Table.AnalysisErrors = append(result.Table.AnalysisErrors, fmt.Sprintf("%s: %s", name, w))
		}

		result.Table.Append(i, file, res.Record)
		logger.Debugw("run recorded", "file", name, "state", res.State.String(),
			"plateau_samples", len(res.Plateau.Indexes), "mean", res.Record.MeanTemp)

		for _, hook := range a.hooks {
			if err := hook(file, res); err != nil {
				a.sendWarning("hook failed for %s: %v", name, err)
			}
		}
		if cfg.Plot.Enabled {
			if err := a.plotRun(cfg, result, file, res); err != nil {
				a.sendWarning("Error generating plot for %s: %v", name, err)
			}
		}
	}

	a.sendStatus("Analysis complete. %d of %d files recorded.", len(result.Table.Rows), len(files))
	return result, nil
}

// plotRun renders the trace plot of one run, keeps it for the PDF report and
// saves it under the plot directory.
func (a *App) plotRun(cfg *config.Config, result *BatchResult, file string, res *analysis.RunResult) error {
	opts := plotOptions(cfg)
	img, err := report.CreateTracePlot(res.Trace, cfg.Analysis.Channel, res.Plateau.Indexes, filepath.Base(file), opts)
	if err != nil {
		return err
	}
	result.PlotImages[report.TracePlotKey(file)] = img

	if cfg.Output.PlotDir == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.Output.PlotDir, 0o755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return os.WriteFile(filepath.Join(cfg.Output.PlotDir, base+".png"), img, 0o644)
}

func plotOptions(cfg *config.Config) report.PlotOptions {
	return report.PlotOptions{
		Width:  cfg.Plot.Width,
		Height: cfg.Plot.Height,
		YMin:   cfg.Plot.YMin,
		YMax:   cfg.Plot.YMax,
	}
}

// WriteOutputs writes the results CSV and, when configured, the workbook and
// the PDF report.
func (a *App) WriteOutputs(cfg *config.Config, result *BatchResult) error {
	if err := report.WriteResultsCSV(cfg.Output.CSVPath, result.Table); err != nil {
		return err
	}
	a.sendStatus("Results written to %s", cfg.Output.CSVPath)

	if cfg.Output.XLSXPath != "" {
		if err := report.WriteResultsXLSX(cfg.Output.XLSXPath, result.Table); err != nil {
			return err
		}
	}

	if cfg.Output.PDFPath != "" {
		if len(result.Table.Rows) > 0 {
			img, err := report.CreateRatesPlot(result.Table, plotOptions(cfg))
			if err != nil {
				a.sendWarning("Error generating rates plot: %v", err)
			} else {
				result.PlotImages[report.RatesPlotKey] = img
			}
		}
		if err := report.BuildPDFReport(cfg.Output.PDFPath, result.Table, cfg.Analysis, result.PlotImages); err != nil {
			return fmt.Errorf("error generating PDF report: %w", err)
		}
		a.sendStatus("PDF report successfully generated: %s", cfg.Output.PDFPath)
	}
	return nil
}
