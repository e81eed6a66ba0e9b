// Package driver wires configuration, logging, the seed generator and the
// stepper together and runs them either in batch or in the terminal viewer.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/ob6160/Erosion1D/config"
	"github.com/ob6160/Erosion1D/diagnostics"
	"github.com/ob6160/Erosion1D/erosion"
	"github.com/ob6160/Erosion1D/generators"
	"github.com/ob6160/Erosion1D/gui"
	"github.com/ob6160/Erosion1D/logger"
	"github.com/rs/zerolog"
)

// DelugeAmount is the loose material the viewer's deluge key drops on every
// column.
const DelugeAmount = 0.01

// RainSize is one raindrop of the viewer's rain keys.
const RainSize = 10 * DelugeAmount

// Run executes one simulation described by cfg. Step reports go to out and
// logs to errOut. A cancelled ctx ends the run without an error.
func Run(ctx context.Context, cfg config.Config, out, errOut io.Writer) error {
	log, err := logger.New(errOut, cfg.LogLevel)
	if err != nil {
		return err
	}

	gen, err := generators.New(cfg.Generator, cfg.GeneratorOptions())
	if err != nil {
		return err
	}
	var state = cfg.State()
	stepper, err := erosion.NewStepper(gen, &state)
	if err != nil {
		return err
	}

	log.Info().
		Str("generator", cfg.Generator).
		Int("columns", stepper.Columns()).
		Int("steps", cfg.Steps).
		Float64("erosion_rate", state.ErosionRate).
		Float64("transfer_rate", state.TransferRate).
		Ints("offsets", state.Offsets).
		Msg("simulation starting")

	if cfg.View {
		return runView(ctx, cfg, stepper, log)
	}
	return runBatch(ctx, cfg, stepper, out, log)
}

func runBatch(ctx context.Context, cfg config.Config, stepper *erosion.Stepper, out io.Writer, log zerolog.Logger) error {
	obs, err := diagnostics.New(cfg.Report, out, log, cfg.ReportEvery)
	if err != nil {
		return err
	}

	var before = stepper.Snapshot().Totals()
	steps, err := stepper.Run(ctx, cfg.Steps, cfg.Tolerance, obs)
	if reporter, ok := obs.(interface{ Err() error }); ok && reporter.Err() != nil {
		return fmt.Errorf("write report: %w", reporter.Err())
	}

	var final = stepper.Snapshot()
	var after = final.Totals()
	var event = log.Info()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		event = log.Warn()
	} else if err != nil {
		return err
	}
	var converged = err == nil && cfg.Tolerance > 0 && steps > 0 && stepper.LastChange() <= cfg.Tolerance
	event.
		Int("steps", steps).
		Bool("converged", converged).
		Float64("last_change", stepper.LastChange()).
		Float64("mobile_drift", math.Abs(after.Y()-before.Y())).
		Float64("variance", final.Variance()).
		Msg(finishMessage(err))
	return nil
}

func finishMessage(err error) string {
	if err != nil {
		return "simulation interrupted"
	}
	return "simulation finished"
}

func runView(ctx context.Context, cfg config.Config, stepper *erosion.Stepper, log zerolog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	return view(ctx, screen, cfg, stepper, log)
}

func view(ctx context.Context, screen tcell.Screen, cfg config.Config, stepper *erosion.Stepper, log zerolog.Logger) error {
	g, err := gui.NewGUI(screen, gui.Settings{
		Spread:       cfg.Spread,
		Reduce:       cfg.Reduce,
		DelugeAmount: DelugeAmount,
		RainSize:     RainSize,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return err
	}
	defer g.Dispose()

	err = g.Run(ctx, stepper, cfg.FPS)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info().Int("steps", stepper.Iterations()).Msg("viewer closed")
	return err
}
