// Package terrain holds the column profile shared by the stepper, the seed
// generators and the viewers.
package terrain

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/ob6160/Erosion1D/utils"
)

var (
	ErrEmptyProfile   = errors.New("terrain: profile has no columns")
	ErrLengthMismatch = errors.New("terrain: solid and mobile lengths differ")
)

// Profile is one solid/mobile height pair per column. The elevation of a
// column is Solid[i] + Mobile[i].
type Profile struct {
	Solid  []float64
	Mobile []float64
}

// NewProfile copies solid and mobile into a validated Profile.
func NewProfile(solid, mobile []float64) (Profile, error) {
	var p = Profile{Solid: solid, Mobile: mobile}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p.Clone(), nil
}

func (p Profile) Validate() error {
	if len(p.Solid) != len(p.Mobile) {
		return fmt.Errorf("%w: %d solid, %d mobile", ErrLengthMismatch, len(p.Solid), len(p.Mobile))
	}
	if len(p.Solid) == 0 {
		return ErrEmptyProfile
	}
	return nil
}

func (p Profile) Len() int {
	return len(p.Solid)
}

func (p Profile) Clone() Profile {
	var solid = make([]float64, len(p.Solid))
	var mobile = make([]float64, len(p.Mobile))
	copy(solid, p.Solid)
	copy(mobile, p.Mobile)
	return Profile{Solid: solid, Mobile: mobile}
}

func (p Profile) Elevations() []float64 {
	var elevations = make([]float64, len(p.Solid))
	for i := range p.Solid {
		elevations[i] = p.Solid[i] + p.Mobile[i]
	}
	return elevations
}

// Totals returns {sum(Solid), sum(Mobile)}.
func (p Profile) Totals() mgl64.Vec2 {
	return mgl64.Vec2{utils.Sum(p.Solid...), utils.Sum(p.Mobile...)}
}

// Variance of the column elevations. Erosion drives it towards zero.
func (p Profile) Variance() float64 {
	return utils.Variance(p.Elevations()...)
}

func (p Profile) MaxElevation() float64 {
	var elevations = p.Elevations()
	if len(elevations) == 0 {
		return 0
	}
	var max = elevations[0]
	for _, e := range elevations[1:] {
		if e > max {
			max = e
		}
	}
	return max
}

// Equal compares both layers element-wise within epsilon.
func (p Profile) Equal(other Profile, epsilon float64) bool {
	if len(p.Solid) != len(other.Solid) || len(p.Mobile) != len(other.Mobile) {
		return false
	}
	for i := range p.Solid {
		if !mgl64.FloatEqualThreshold(p.Solid[i], other.Solid[i], epsilon) {
			return false
		}
	}
	for i := range p.Mobile {
		if !mgl64.FloatEqualThreshold(p.Mobile[i], other.Mobile[i], epsilon) {
			return false
		}
	}
	return true
}
