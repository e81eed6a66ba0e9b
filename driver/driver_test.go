package driver

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ob6160/Erosion1D/config"
	"github.com/ob6160/Erosion1D/diagnostics"
	"github.com/ob6160/Erosion1D/erosion"
	"github.com/ob6160/Erosion1D/generators"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) config.Config {
	t.Helper()
	cfg, err := config.ParseConfig(flag.NewFlagSet("erosion", flag.ContinueOnError), args)
	require.NoError(t, err)
	return cfg
}

func TestRunPrintsReferenceTable(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Run(context.Background(), parse(t, "-steps", "2"), &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, 4, strings.Count(out.String(), "--------------\n"))
	assert.Contains(t, out.String(), "      001.800000, 001.800000, 001.800000, 001.785000, 001.315000, 001.300000, 001.300000\n")
	assert.Contains(t, out.String(), " 4.1\n")
	assert.Contains(t, errOut.String(), "simulation starting")
	assert.Contains(t, errOut.String(), "simulation finished")
	assert.Contains(t, errOut.String(), "steps=2")
}

func TestRunWithoutReport(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Run(context.Background(), parse(t, "-steps", "100", "-report", "none"), &out, &errOut)
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "steps=100")
}

func TestRunLogReport(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Run(context.Background(), parse(t, "-steps", "3", "-report", "log"), &out, &errOut)
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Equal(t, 3, strings.Count(errOut.String(), "erosion step"))
}

func TestRunStopsOnConvergence(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Run(context.Background(), parse(t, "-report", "none", "-tolerance", "1"), &out, &errOut)
	require.NoError(t, err)
	assert.Regexp(t, `steps=1\b`, errOut.String())
	assert.Contains(t, errOut.String(), "converged=true")
}

func TestRunConvergesOnLastAllowedStep(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Run(context.Background(), parse(t, "-steps", "1", "-report", "none", "-tolerance", "1"), &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "converged=true")
}

func TestRunBelowToleranceIsNotConverged(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Run(context.Background(), parse(t, "-steps", "3", "-report", "none", "-tolerance", "1e-12"), &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "converged=false")
}

func TestRunCancelledWithToleranceIsNotConverged(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errOut bytes.Buffer
	err := Run(ctx, parse(t, "-report", "none", "-tolerance", "1e-12"), &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "simulation interrupted")
	assert.Contains(t, errOut.String(), "converged=false")
}

func TestRunCancelledIsNotAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errOut bytes.Buffer
	err := Run(ctx, parse(t, "-report", "none"), &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "simulation interrupted")
	assert.Regexp(t, `steps=0\b`, errOut.String())
}

func TestRunConfigurationErrors(t *testing.T) {
	var cfg = parse(t)
	cfg.Generator = "volcano"
	err := Run(context.Background(), cfg, &bytes.Buffer{}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, generators.ErrUnknownGenerator))

	cfg = parse(t)
	cfg.Offsets = []int{0}
	err = Run(context.Background(), cfg, &bytes.Buffer{}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, erosion.ErrInvalidState))

	cfg = parse(t)
	cfg.Report = "chart"
	err = Run(context.Background(), cfg, &bytes.Buffer{}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, diagnostics.ErrUnknownReport))

	cfg = parse(t)
	cfg.LogLevel = "loud"
	err = Run(context.Background(), cfg, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("pipe closed")
}

func TestRunSurfacesReportWriteErrors(t *testing.T) {
	err := Run(context.Background(), parse(t, "-steps", "5"), brokenWriter{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipe closed")
}

func TestViewQuits(t *testing.T) {
	var cfg = parse(t)
	gen, err := generators.New(cfg.Generator, cfg.GeneratorOptions())
	require.NoError(t, err)
	var state = cfg.State()
	stepper, err := erosion.NewStepper(gen, &state)
	require.NoError(t, err)

	var screen = tcell.NewSimulationScreen("UTF-8")
	var errOut bytes.Buffer
	var done = make(chan error, 1)
	go func() { done <- view(context.Background(), screen, cfg, stepper, zerolog.New(&errOut)) }()

	require.Eventually(t, func() bool {
		width, _ := screen.Size()
		return width > 0
	}, 2*time.Second, 10*time.Millisecond)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not quit")
	}
	assert.Contains(t, errOut.String(), "viewer closed")
}
