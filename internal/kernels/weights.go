package kernels

import (
	"fmt"
	"math"
)

// Weight mixes the red, green and blue planes into one gray plane.
type Weight struct {
	R, G, B float64
}

func (w Weight) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", w.R, w.G, w.B)
}

// Valid reports whether the components are non-negative and sum to 1.
func (w Weight) Valid() bool {
	if w.R < 0 || w.G < 0 || w.B < 0 {
		return false
	}
	return math.Abs(w.R+w.G+w.B-1) <= 1e-6
}

// DefaultWeights returns a fresh copy of the candidate weights searched by
// the bimodality enhancement.
func DefaultWeights() []Weight {
	return []Weight{
		{0.2, 0.2, 0.6},
		{0.2, 0.6, 0.2},
		{0.6, 0.2, 0.2},
		{0.1, 0.1, 0.8},
		{0.1, 0.8, 0.1},
		{0.8, 0.1, 0.1},
		{0.9, 0.1, 0.0},
		{0.4, 0.3, 0.3},
		{0.3, 0.4, 0.3},
		{0.3, 0.3, 0.4},
	}
}
