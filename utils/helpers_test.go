package utils

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithinBounds(t *testing.T) {
	tests := []struct {
		name       string
		index, dim int
		want       bool
	}{
		{"first", 0, 7, true},
		{"last", 6, 7, true},
		{"left of range", -1, 7, false},
		{"right of range", 7, 7, false},
		{"empty", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinBounds(tt.index, tt.dim))
		})
	}
}

func TestMidpoint(t *testing.T) {
	assert.Equal(t, 3, Midpoint(0, 6))
	assert.Equal(t, 3, Midpoint(0, 7))
	assert.Equal(t, 5, Midpoint(4, 6))
}

func TestSumAverageVariance(t *testing.T) {
	var nums = []float64{1, 2, 3, 4}
	assert.InDelta(t, 10.0, Sum(nums...), 1e-12)
	assert.InDelta(t, 2.5, Average(nums...), 1e-12)
	assert.InDelta(t, 1.25, Variance(nums...), 1e-12)

	assert.Zero(t, Sum())
	assert.Zero(t, Average())
	assert.Zero(t, Variance())
	assert.Zero(t, Variance(0.4, 0.4, 0.4))
	assert.Zero(t, Variance(1.3, 1.3, 1.3, 1.3, 1.3, 1.3, 1.3))
	assert.InDelta(t, 2.0/9.0, Variance(0.1, 0.1, 1.1), 1e-15)
}

func TestJitterStaysWithinScale(t *testing.T) {
	var rng = rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		var v = Jitter(rng, 0.5, 0.25)
		assert.GreaterOrEqual(t, v, 0.25)
		assert.LessOrEqual(t, v, 0.75)
	}
}
