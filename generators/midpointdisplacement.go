package generators

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ob6160/Erosion1D/terrain"
	"github.com/ob6160/Erosion1D/utils"
)

// MidpointDisplacement builds a random solid relief by recursive midpoint
// displacement, normalised to [0, 1] and lifted onto Base. Every column
// carries the same Mobile layer.
type MidpointDisplacement struct {
	heightmap []float64
	rng       *rand.Rand

	Base, Relief, Mobile float64
}

func NewMidpointDisplacement(columns int, seed int64) (*MidpointDisplacement, error) {
	if columns <= 0 {
		return nil, fmt.Errorf("%w: %d columns", terrain.ErrEmptyProfile, columns)
	}
	return &MidpointDisplacement{
		heightmap: make([]float64, columns),
		rng:       rand.New(rand.NewSource(seed)),
		Base:      0.5,
		Relief:    1.0,
		Mobile:    0.1,
	}, nil
}

func (m *MidpointDisplacement) Columns() int {
	return len(m.heightmap)
}

// Heightmap is the normalised relief from the last Generate.
func (m *MidpointDisplacement) Heightmap() []float64 {
	var out = make([]float64, len(m.heightmap))
	copy(out, m.heightmap)
	return out
}

func (m *MidpointDisplacement) Profile() terrain.Profile {
	var p = terrain.Profile{
		Solid:  make([]float64, len(m.heightmap)),
		Mobile: make([]float64, len(m.heightmap)),
	}
	for x, h := range m.heightmap {
		p.Solid[x] = m.Base + h*m.Relief
		p.Mobile[x] = m.Mobile
	}
	return p
}

func (m *MidpointDisplacement) Generate(spread, reduce float64) {
	for i := range m.heightmap {
		m.heightmap[i] = math.NaN()
	}
	var left, right = 0, len(m.heightmap) - 1
	m.heightmap[left] = m.rng.Float64()
	m.heightmap[right] = m.rng.Float64()
	m.displace(left, right, spread, reduce)
	m.normalize()
}

func (m *MidpointDisplacement) displace(left, right int, spread, reduce float64) {
	if right-left <= 1 {
		return
	}
	var mid = utils.Midpoint(left, right)
	if math.IsNaN(m.heightmap[mid]) {
		avg := utils.Average(m.heightmap[left], m.heightmap[right])
		m.heightmap[mid] = utils.Jitter(m.rng, avg, spread)
	}

	next := spread * reduce
	m.displace(left, mid, next, reduce)
	m.displace(mid, right, next, reduce)
}

func (m *MidpointDisplacement) normalize() {
	var maxValue = math.Inf(-1)
	var minValue = math.Inf(1)
	for _, h := range m.heightmap {
		maxValue = math.Max(maxValue, h)
		minValue = math.Min(minValue, h)
	}
	diff := maxValue - minValue
	if diff == 0 {
		for i := range m.heightmap {
			m.heightmap[i] = 0
		}
		return
	}

	for i := range m.heightmap {
		m.heightmap[i] = (m.heightmap[i] - minValue) / diff
	}
}
