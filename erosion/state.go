package erosion

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidState = errors.New("erosion: invalid state")

// State holds the constants of the erosion rule.
type State struct {
	// ErosionRate is the fraction of moved solid that also moves as mobile.
	ErosionRate float64
	// TransferRate is the fraction of a column's solid height that leaves it
	// in one step.
	TransferRate float64
	// Offsets locate the neighbours of a column.
	Offsets []int
}

func DefaultState() State {
	return State{
		ErosionRate:  0.5,
		TransferRate: 0.01,
		Offsets:      []int{-1, 1},
	}
}

func (s *State) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidState)
	}
	if math.IsNaN(s.ErosionRate) || math.IsInf(s.ErosionRate, 0) {
		return fmt.Errorf("%w: erosion rate %v", ErrInvalidState, s.ErosionRate)
	}
	if math.IsNaN(s.TransferRate) || math.IsInf(s.TransferRate, 0) {
		return fmt.Errorf("%w: transfer rate %v", ErrInvalidState, s.TransferRate)
	}
	if len(s.Offsets) == 0 {
		return fmt.Errorf("%w: no neighbour offsets", ErrInvalidState)
	}
	for _, d := range s.Offsets {
		if d == 0 {
			return fmt.Errorf("%w: zero neighbour offset", ErrInvalidState)
		}
	}
	return nil
}
