// Package diagnostics reports the state of a running simulation.
package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ob6160/Erosion1D/erosion"
	"github.com/ob6160/Erosion1D/terrain"
	"github.com/rs/zerolog"
)

var ErrUnknownReport = errors.New("diagnostics: unknown report mode")

// Modes lists the report modes understood by New.
var Modes = []string{"table", "log", "none"}

// New returns the observer for mode, or nil for "none". Only every n-th
// iteration is reported.
func New(mode string, out io.Writer, logger zerolog.Logger, every int) (erosion.Observer, error) {
	if every < 1 {
		every = 1
	}
	switch mode {
	case "table":
		return NewTable(out, every), nil
	case "log":
		return NewLog(logger, every), nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownReport, mode)
}

const separator = "--------------"

// Table prints the elevation, solid and mobile rows of every reported step
// as fixed width decimals, with layer totals after the solid and mobile rows.
type Table struct {
	out   io.Writer
	every int
	err   error
}

func NewTable(out io.Writer, every int) *Table {
	return &Table{out: out, every: every}
}

func (t *Table) Observe(iteration int, p terrain.Profile) {
	if t.err != nil || iteration%t.every != 0 {
		return
	}
	var totals = p.Totals()
	var b strings.Builder
	b.WriteString(separator + "\n")
	b.WriteString("      " + row(p.Elevations()) + "\n")
	b.WriteString("      " + row(p.Solid) + " " + formatTotal(totals.X()) + "\n")
	b.WriteString("      " + row(p.Mobile) + " " + formatTotal(totals.Y()) + "\n")
	b.WriteString(separator + "\n")
	_, t.err = io.WriteString(t.out, b.String())
}

// Err is the first write error, if any. Reporting stops after it.
func (t *Table) Err() error {
	return t.err
}

func row(values []float64) string {
	var cells = make([]string, len(values))
	for i, v := range values {
		cells[i] = fmt.Sprintf("%010.6f", v)
	}
	return strings.Join(cells, ", ")
}

// formatTotal prints 12 significant digits and keeps a trailing ".0" on
// integral values, e.g. 7.0 and 4.1.
func formatTotal(v float64) string {
	var s = strconv.FormatFloat(v, 'g', 12, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// Log emits one structured event per reported step.
type Log struct {
	logger zerolog.Logger
	every  int
}

func NewLog(logger zerolog.Logger, every int) *Log {
	return &Log{logger: logger, every: every}
}

func (l *Log) Observe(iteration int, p terrain.Profile) {
	if iteration%l.every != 0 {
		return
	}
	var totals = p.Totals()
	l.logger.Info().
		Int("step", iteration).
		Floats64("elevation", p.Elevations()).
		Float64("solid_total", totals.X()).
		Float64("mobile_total", totals.Y()).
		Float64("variance", p.Variance()).
		Msg("erosion step")
}
