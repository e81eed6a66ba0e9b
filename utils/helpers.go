package utils

import (
	"math/rand"
)

func WithinBounds(index, dimensions int) bool {
	if index >= 0 && index < dimensions {
		return true
	}
	return false
}

func Midpoint(p1, p2 int) int {
	return (p2 + p1) / 2
}

func Sum(nums ...float64) float64 {
	var total = 0.0
	for _, num := range nums {
		total += num
	}
	return total
}

// Average returns 0 for an empty argument list.
func Average(nums ...float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	return Sum(nums...) / float64(len(nums))
}

// Variance is the population variance of nums. Values are shifted by the
// first one so equal inputs give exactly 0.
func Variance(nums ...float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	var shifted = make([]float64, len(nums))
	for i, num := range nums {
		shifted[i] = num - nums[0]
	}
	var mean = Average(shifted...)
	var total = 0.0
	for _, d := range shifted {
		d -= mean
		total += d * d
	}
	return total / float64(len(nums))
}

func Jitter(rng *rand.Rand, value, scale float64) float64 {
	random := rng.Float64() * scale * 2
	shift := scale - random
	return shift + value
}
