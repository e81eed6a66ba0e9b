// Package generators builds seed profiles for the erosion stepper.
package generators

import (
	"errors"
	"fmt"

	"github.com/ob6160/Erosion1D/terrain"
)

var ErrUnknownGenerator = errors.New("generators: unknown generator")

// ProfileGenerator produces the solid/mobile seed of a simulation.
// Generate re-rolls the profile for generators that have randomness; the
// arguments are ignored by deterministic generators.
type ProfileGenerator interface {
	Generate(spread, reduce float64)
	Profile() terrain.Profile
	Columns() int
}

// Options carries the startup parameters used by New.
type Options struct {
	Columns        int
	Seed           int64
	Spread, Reduce float64
	Solid, Mobile  []float64
}

// Names lists the generators understood by New.
var Names = []string{"reference", "fixed", "step", "midpoint"}

func New(name string, opts Options) (ProfileGenerator, error) {
	switch name {
	case "reference":
		return Reference(), nil
	case "fixed":
		return NewFixed(opts.Solid, opts.Mobile)
	case "step":
		return NewStep(opts.Columns, 1.0, 0.8, 0.3)
	case "midpoint":
		m, err := NewMidpointDisplacement(opts.Columns, opts.Seed)
		if err != nil {
			return nil, err
		}
		m.Generate(opts.Spread, opts.Reduce)
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
}

type Fixed struct {
	profile terrain.Profile
}

func NewFixed(solid, mobile []float64) (*Fixed, error) {
	p, err := terrain.NewProfile(solid, mobile)
	if err != nil {
		return nil, err
	}
	return &Fixed{profile: p}, nil
}

// Reference is the seven column seed: uniform bedrock with loose material
// piled on the left four columns.
func Reference() *Fixed {
	return &Fixed{profile: terrain.Profile{
		Solid:  []float64{1, 1, 1, 1, 1, 1, 1},
		Mobile: []float64{0.8, 0.8, 0.8, 0.8, 0.3, 0.3, 0.3},
	}}
}

func (f *Fixed) Generate(spread, reduce float64) {}

func (f *Fixed) Profile() terrain.Profile {
	return f.profile.Clone()
}

func (f *Fixed) Columns() int {
	return f.profile.Len()
}

// Step is a uniform solid layer with a mobile layer that drops from High to
// Low past the middle column.
type Step struct {
	columns         int
	Base, High, Low float64
}

func NewStep(columns int, base, high, low float64) (*Step, error) {
	if columns <= 0 {
		return nil, fmt.Errorf("%w: %d columns", terrain.ErrEmptyProfile, columns)
	}
	return &Step{columns: columns, Base: base, High: high, Low: low}, nil
}

func (s *Step) Generate(spread, reduce float64) {}

func (s *Step) Profile() terrain.Profile {
	var p = terrain.Profile{
		Solid:  make([]float64, s.columns),
		Mobile: make([]float64, s.columns),
	}
	for x := 0; x < s.columns; x++ {
		p.Solid[x] = s.Base
		if x > s.columns/2 {
			p.Mobile[x] = s.Low
		} else {
			p.Mobile[x] = s.High
		}
	}
	return p
}

func (s *Step) Columns() int {
	return s.columns
}
