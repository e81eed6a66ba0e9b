package erosion

import (
	"context"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/ob6160/Erosion1D/generators"
	"github.com/ob6160/Erosion1D/terrain"
	"github.com/ob6160/Erosion1D/utils"
)

type LayerData struct {
	solid  *mgl64.VecN
	mobile *mgl64.VecN
}

// Observer is handed the pre-step profile before every step of Run.
type Observer interface {
	Observe(iteration int, p terrain.Profile)
}

type ObserverFunc func(iteration int, p terrain.Profile)

func (f ObserverFunc) Observe(iteration int, p terrain.Profile) {
	f(iteration, p)
}

// Stepper owns the solid and mobile layers of a 1D terrain and advances them
// one synchronous erosion step at a time.
type Stepper struct {
	initial    *LayerData
	swap       *LayerData
	state      *State
	profile    generators.ProfileGenerator
	running    bool
	columns    int
	iterations int
	lastChange float64
	weights    []float64
}

func NewStepper(profile generators.ProfileGenerator, state *State) (*Stepper, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	var stepper = Stepper{
		state:   state,
		profile: profile,
		weights: make([]float64, len(state.Offsets)),
	}
	if err := stepper.Reset(); err != nil {
		return nil, err
	}
	return &stepper, nil
}

func newLayerData(p terrain.Profile) *LayerData {
	return &LayerData{
		solid:  mgl64.NewVecNFromData(p.Solid),
		mobile: mgl64.NewVecNFromData(p.Mobile),
	}
}

// Reset re-seeds both layers from the generator and stops the simulation.
func (t *Stepper) Reset() error {
	var p = t.profile.Profile()
	if err := p.Validate(); err != nil {
		return err
	}
	t.columns = p.Len()
	t.initial = newLayerData(p)
	t.swap = newLayerData(p)
	t.iterations = 0
	t.lastChange = 0
	t.running = false
	return nil
}

// Regenerate rolls a new seed profile and resets onto it.
func (t *Stepper) Regenerate(spread, reduce float64) error {
	t.profile.Generate(spread, reduce)
	return t.Reset()
}

func (t *Stepper) Toggle() {
	t.running = !t.running
}

func (t *Stepper) IsRunning() bool {
	return t.running
}

func (t *Stepper) Update() {
	if t.running {
		t.Step()
	}
}

func (t *Stepper) Columns() int {
	return t.columns
}

func (t *Stepper) Iterations() int {
	return t.iterations
}

// LastChange is the largest absolute change of any solid or mobile height
// made by the most recent step.
func (t *Stepper) LastChange() float64 {
	return t.lastChange
}

func (t *Stepper) Snapshot() terrain.Profile {
	return terrain.Profile{
		Solid:  t.initial.solid.Raw(),
		Mobile: t.initial.mobile.Raw(),
	}.Clone()
}

// Deluge drops amount of loose material on every column.
func (t *Stepper) Deluge(amount float64) {
	for i := 0; i < t.columns; i++ {
		t.initial.mobile.Set(i, t.initial.mobile.Get(i)+amount)
	}
}

// Rain drops size of loose material on drops randomly chosen columns.
func (t *Stepper) Rain(rng *rand.Rand, drops int, size float64) {
	for i := 0; i < drops; i++ {
		var x = rng.Intn(t.columns)
		t.initial.mobile.Set(x, t.initial.mobile.Get(x)+size)
	}
}

// Step moves material from every column to its lower neighbours. All columns
// read the pre-step layers; the results land in the swap layers, which then
// replace the current ones.
func (t *Stepper) Step() {
	var solid, mobile = t.initial.solid.Raw(), t.initial.mobile.Raw()
	var nextSolid, nextMobile = t.swap.solid.Raw(), t.swap.mobile.Raw()
	copy(nextSolid, solid)
	copy(nextMobile, mobile)

	var offsets = t.state.Offsets
	var erosionRate = t.state.ErosionRate

	// The float64 conversions round each product before it is added, which
	// keeps the compiler from fusing multiply-adds and the results bit-exact.
	for x := 0; x < t.columns; x++ {
		// count is the sum of the positive height differences, not a tally.
		var count = 0.0
		for i, d := range offsets {
			t.weights[i] = 0
			var x1 = x + d
			if !utils.WithinBounds(x1, t.columns) {
				continue
			}
			var dh = float64(solid[x]+mobile[x]) - float64(solid[x1]+mobile[x1])
			if dh > 0 {
				t.weights[i] = dh
				count += dh
			}
		}
		if count == 0 {
			continue
		}

		var q = float64(solid[x] * t.state.TransferRate)
		for i, d := range offsets {
			if t.weights[i] > 0 {
				var share = float64(float64(q*t.weights[i]) / count)
				nextMobile[x+d] += float64(share * erosionRate)
				nextSolid[x+d] += share
			}
		}
		nextMobile[x] -= float64(q * erosionRate)
		nextSolid[x] -= q
	}

	var change = 0.0
	for x := 0; x < t.columns; x++ {
		change = math.Max(change, math.Abs(nextSolid[x]-solid[x]))
		change = math.Max(change, math.Abs(nextMobile[x]-mobile[x]))
	}

	t.initial, t.swap = t.swap, t.initial
	t.lastChange = change
	t.iterations++
}

// Run advances the simulation by at most steps steps, handing obs the
// pre-step profile each time. With a positive tolerance it stops early once
// a step changes no height by more than tolerance. It returns the number of
// steps taken.
func (t *Stepper) Run(ctx context.Context, steps int, tolerance float64, obs Observer) (int, error) {
	for n := 0; n < steps; n++ {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}
		if obs != nil {
			obs.Observe(t.iterations, t.Snapshot())
		}
		t.Step()
		if tolerance > 0 && t.lastChange <= tolerance {
			return n + 1, nil
		}
	}
	return steps, nil
}
