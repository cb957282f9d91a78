package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/user/heater_analyzer_go/internal/analysis"
	"github.com/user/heater_analyzer_go/internal/config"
	"github.com/user/heater_analyzer_go/internal/log"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		dir        = flag.String("dir", "", "Directory holding heater test files (overrides config)")
		csvOut     = flag.String("out", "", "Results CSV path (overrides config)")
		xlsxOut    = flag.String("xlsx", "", "Also write the results to this XLSX workbook")
		pdfOut     = flag.String("pdf", "", "Also write a PDF report to this path")
		plotFlag   = flag.Bool("plot", false, "Plot each synchronized trace with its plateau")
		debug      = flag.Bool("debug", false, "Enable debug logging")
		watch      = flag.Bool("watch", false, "Re-run the batch when input files or the config change")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *dir, *csvOut, *xlsxOut, *pdfOut, *plotFlag, *debug)

	if err := log.Init(cfg.Logging.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app := NewApp(cfg)
	runOrExit(app)

	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	onInput := func(name string) {
		log.Infow("input changed, re-running batch", "file", name)
		runOrExit(app)
	}
	onConfig := func(newCfg *config.Config) {
		applyFlags(newCfg, *dir, *csvOut, *xlsxOut, *pdfOut, *plotFlag, *debug)
		app.SetConfig(newCfg)
		runOrExit(app)
	}
	if err := config.Watch(ctx, cfg.Input.Dir, cfg.Input.Extension, *configPath, cfg.Input.Settle, onInput, onConfig); err != nil {
		log.Fatalf("watch failed: %v", err)
	}
}

// runOrExit runs one batch. A sync failure ends the process; other errors
// are logged.
func runOrExit(app *App) {
	if _, err := app.RunBatch(); err != nil {
		if errors.Is(err, analysis.ErrSyncNotFound) {
			log.Errorf("%v", err)
			log.Sync()
			os.Exit(1)
		}
		log.Errorf("batch failed: %v", err)
	}
}

// applyFlags lets explicit command-line values win over file and environment.
func applyFlags(cfg *config.Config, dir, csvOut, xlsxOut, pdfOut string, plot, debug bool) {
	if dir != "" {
		cfg.Input.Dir = dir
	}
	if csvOut != "" {
		cfg.Output.CSVPath = csvOut
	}
	if xlsxOut != "" {
		cfg.Output.XLSXPath = xlsxOut
	}
	if pdfOut != "" {
		cfg.Output.PDFPath = pdfOut
	}
	if plot {
		cfg.Plot.Enabled = true
	}
	if debug {
		cfg.Logging.Debug = true
	}
}
