// Package config loads the simulation settings from the environment and the
// command line. Flags override environment values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/ob6160/Erosion1D/diagnostics"
	"github.com/ob6160/Erosion1D/erosion"
	"github.com/ob6160/Erosion1D/generators"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Steps     int       `env:"EROSION_STEPS"     envDefault:"10000"`
	Generator string    `env:"EROSION_GENERATOR" envDefault:"reference"`
	Solid     []float64 `env:"EROSION_SOLID"     envSeparator:","`
	Mobile    []float64 `env:"EROSION_MOBILE"    envSeparator:","`
	Columns   int       `env:"EROSION_COLUMNS"   envDefault:"7"`
	Seed      int64     `env:"EROSION_SEED"      envDefault:"1"`
	Spread    float64   `env:"EROSION_SPREAD"    envDefault:"0.5"`
	Reduce    float64   `env:"EROSION_REDUCE"    envDefault:"0.5"`

	ErosionRate  float64 `env:"EROSION_RATE"          envDefault:"0.5"`
	TransferRate float64 `env:"EROSION_TRANSFER_RATE" envDefault:"0.01"`
	Offsets      []int   `env:"EROSION_OFFSETS"       envDefault:"-1,1" envSeparator:","`
	Tolerance    float64 `env:"EROSION_TOLERANCE"     envDefault:"0"`

	Report      string `env:"EROSION_REPORT"       envDefault:"table"`
	ReportEvery int    `env:"EROSION_REPORT_EVERY" envDefault:"1"`
	LogLevel    string `env:"EROSION_LOG_LEVEL"    envDefault:"info"`

	View bool `env:"EROSION_VIEW"`
	FPS  int  `env:"EROSION_FPS" envDefault:"60"`
}

// ParseConfig reads the environment, then applies flags from args.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.IntVar(&cfg.Steps, "steps", cfg.Steps, "number of erosion steps to run")
	fs.StringVar(&cfg.Generator, "generator", cfg.Generator, "seed profile: "+strings.Join(generators.Names, ", "))
	fs.Func("solid", "comma separated solid heights (fixed generator)", floatList(&cfg.Solid))
	fs.Func("mobile", "comma separated mobile heights (fixed generator)", floatList(&cfg.Mobile))
	fs.IntVar(&cfg.Columns, "columns", cfg.Columns, "column count for the step and midpoint generators")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for the midpoint generator")
	fs.Float64Var(&cfg.Spread, "spread", cfg.Spread, "midpoint displacement spread")
	fs.Float64Var(&cfg.Reduce, "reduce", cfg.Reduce, "midpoint displacement spread reduction per level")
	fs.Float64Var(&cfg.ErosionRate, "erosion-rate", cfg.ErosionRate, "fraction of moved solid that also moves as mobile")
	fs.Float64Var(&cfg.TransferRate, "transfer-rate", cfg.TransferRate, "fraction of a column's solid moved per step")
	fs.Func("offsets", "comma separated neighbour offsets (default -1,1)", intList(&cfg.Offsets))
	fs.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "stop once a step changes no height by more than this (0 disables)")
	fs.StringVar(&cfg.Report, "report", cfg.Report, "step report: "+strings.Join(diagnostics.Modes, ", "))
	fs.IntVar(&cfg.ReportEvery, "report-every", cfg.ReportEvery, "report every n-th step")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.View, "view", cfg.View, "open the interactive terminal viewer")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "viewer frames per second")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.ReportEvery < 1 {
		return fmt.Errorf("%w: report-every must be at least 1, got %d", ErrInvalidConfig, c.ReportEvery)
	}
	if c.FPS < 1 {
		return fmt.Errorf("%w: fps must be at least 1, got %d", ErrInvalidConfig, c.FPS)
	}
	if !slices.Contains(diagnostics.Modes, c.Report) {
		return fmt.Errorf("%w: unknown report mode %q", ErrInvalidConfig, c.Report)
	}
	if !slices.Contains(generators.Names, c.Generator) {
		return fmt.Errorf("%w: unknown generator %q", ErrInvalidConfig, c.Generator)
	}
	if c.Generator == "fixed" {
		if len(c.Solid) != len(c.Mobile) {
			return fmt.Errorf("%w: %d solid heights but %d mobile heights", ErrInvalidConfig, len(c.Solid), len(c.Mobile))
		}
		if len(c.Solid) == 0 {
			return fmt.Errorf("%w: fixed generator needs solid and mobile heights", ErrInvalidConfig)
		}
	} else if len(c.Solid) > 0 || len(c.Mobile) > 0 {
		return fmt.Errorf("%w: solid and mobile heights only apply to the fixed generator", ErrInvalidConfig)
	}
	if (c.Generator == "step" || c.Generator == "midpoint") && c.Columns < 1 {
		return fmt.Errorf("%w: columns must be at least 1, got %d", ErrInvalidConfig, c.Columns)
	}
	var state = c.State()
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) State() erosion.State {
	return erosion.State{
		ErosionRate:  c.ErosionRate,
		TransferRate: c.TransferRate,
		Offsets:      slices.Clone(c.Offsets),
	}
}

func (c Config) GeneratorOptions() generators.Options {
	return generators.Options{
		Columns: c.Columns,
		Seed:    c.Seed,
		Spread:  c.Spread,
		Reduce:  c.Reduce,
		Solid:   slices.Clone(c.Solid),
		Mobile:  slices.Clone(c.Mobile),
	}
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func floatList(target *[]float64) func(string) error {
	return func(value string) error {
		var out []float64
		for _, field := range splitList(value) {
			f, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return err
			}
			out = append(out, f)
		}
		*target = out
		return nil
	}
}

func intList(target *[]int) func(string) error {
	return func(value string) error {
		var out []int
		for _, field := range splitList(value) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return err
			}
			out = append(out, n)
		}
		*target = out
		return nil
	}
}

func splitList(value string) []string {
	var fields []string
	for _, field := range strings.Split(value, ",") {
		if field = strings.TrimSpace(field); field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}
