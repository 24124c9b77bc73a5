// Package stipple implements blue-noise point placement using a modified
// void-and-cluster algorithm: the lowest-energy cell is selected, a
// toroidally wrapped Gaussian repulsion kernel is deposited around it, and
// the cell is permanently excluded from reselection.
package stipple

import (
	"fmt"
	"math"
)

// Kernel is an immutable square table of Gaussian repulsion weights indexed
// by signed offset from its center. Weights are scaled by sigma² rather than
// normalized, so wider kernels push harder as well as farther.
type Kernel struct {
	size    int // odd
	half    int
	weights []float64 // size×size, row-major
}

// NewKernel builds the repulsion kernel for the given Gaussian width.
// The table spans ±3 sigma; weights beyond that are negligible and the
// table simply ends there.
func NewKernel(sigma float64) (*Kernel, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: sigma %g", ErrInvalidSigma, sigma)
	}

	size := int(6*sigma) + 1
	if size%2 == 0 {
		size++
	}
	half := size / 2

	weights := make([]float64, size*size)
	inv := 1 / (2 * sigma * sigma)
	scale := sigma * sigma
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			d2 := float64(dx*dx + dy*dy)
			weights[(dy+half)*size+(dx+half)] = scale * math.Exp(-d2*inv)
		}
	}

	return &Kernel{size: size, half: half, weights: weights}, nil
}

// Size returns the table's side length (always odd).
func (k *Kernel) Size() int { return k.size }

// Radius returns the maximum absolute offset covered along either axis.
func (k *Kernel) Radius() int { return k.half }

// At returns the weight for signed offset (dx, dy). Offsets outside the
// table are zero.
func (k *Kernel) At(dx, dy int) float64 {
	if dx < -k.half || dx > k.half || dy < -k.half || dy > k.half {
		return 0
	}
	return k.weights[(dy+k.half)*k.size+(dx+k.half)]
}
