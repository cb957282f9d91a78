package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/user/heater_analyzer_go/internal/analysis"
	"github.com/user/heater_analyzer_go/internal/parser"
)

// EnvPrefix is prepended to every environment override, e.g. HEATER_INPUT_DIR.
const EnvPrefix = "HEATER"

// Config is the complete configuration of a batch run.
type Config struct {
	Analysis analysis.Config `yaml:"analysis" envconfig:"ANALYSIS"`
	Input    InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output   OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Plot     PlotConfig      `yaml:"plot" envconfig:"PLOT"`
	Logging  LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig says where heater test files are found and how they are laid out.
type InputConfig struct {
	Dir         string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Extension   string `yaml:"extension" envconfig:"EXTENSION" validate:"required"`
	Delimiter   string `yaml:"delimiter" envconfig:"DELIMITER" validate:"required"` // single character, or "tab"
	HeaderLines int    `yaml:"header_lines" envconfig:"HEADER_LINES" validate:"gte=0"`
	FooterLines int    `yaml:"footer_lines" envconfig:"FOOTER_LINES" validate:"gte=0"`

	// Settle is the quiet period watch mode waits after the last change
	// before re-running the batch.
	Settle time.Duration `yaml:"settle" envconfig:"SETTLE" validate:"gte=0"`
}

// OutputConfig lists the artifacts of a batch. Empty XLSX/PDF paths disable them.
type OutputConfig struct {
	CSVPath  string `yaml:"csv_path" envconfig:"CSV_PATH" validate:"required"`
	XLSXPath string `yaml:"xlsx_path" envconfig:"XLSX_PATH"`
	PDFPath  string `yaml:"pdf_path" envconfig:"PDF_PATH"`
	PlotDir  string `yaml:"plot_dir" envconfig:"PLOT_DIR"`
}

// PlotConfig controls the per-file trace plots.
type PlotConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	Width   float64 `yaml:"width" envconfig:"WIDTH" validate:"gt=0"`  // points
	Height  float64 `yaml:"height" envconfig:"HEIGHT" validate:"gt=0"` // points
	YMin    float64 `yaml:"y_min" envconfig:"Y_MIN"`
	YMax    float64 `yaml:"y_max" envconfig:"Y_MAX" validate:"gtfield=YMin"`
}

// LoggingConfig selects the zap development logger when Debug is set.
type LoggingConfig struct {
	Debug bool `yaml:"debug" envconfig:"DEBUG"`
}

// Default returns the configuration used when no file or environment is given.
func Default() *Config {
	return &Config{
		Analysis: analysis.DefaultConfig(),
		Input: InputConfig{
			Dir:         ".",
			Extension:   ".txt",
			Delimiter:   ",",
			HeaderLines: 1,
			FooterLines: 1,
			Settle:      2 * time.Second,
		},
		Output: OutputConfig{
			CSVPath: "Heater_test_results.csv",
			PlotDir: "plots",
		},
		Plot: PlotConfig{
			Enabled: false,
			Width:   864, // 12 x 8 in
			Height:  576,
			YMin:    20,
			YMax:    120,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and HEATER_* environment variables, in that order, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints, including the ordering of the sync window.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ParseOptions converts the input section into parser options.
func (c *Config) ParseOptions() parser.ParseOptions {
	opts := parser.ParseOptions{
		HeaderLines: c.Input.HeaderLines,
		FooterLines: c.Input.FooterLines,
	}
	if c.Input.Delimiter == `\t` || c.Input.Delimiter == "tab" {
		opts.Delimiter = '\t'
	} else if c.Input.Delimiter != "" {
		opts.Delimiter = []rune(c.Input.Delimiter)[0]
	}
	return opts
}
