package stipple

import (
	"math"

	"stipplegen/internal/field"
	"stipplegen/pkg/geometry"
)

// EnergyField is the placer's mutable working state: importance bias plus
// accumulated repulsion. A cell set to +Inf is permanently excluded; every
// other cell only ever increases.
type EnergyField struct {
	f *field.Field

	// scratch index tables for toroidal kernel application, sized to the
	// last kernel used
	wrapX []int
	wrapY []int
}

// NewEnergyField initializes the field as -importance·contentBias, so that
// high-importance cells start with the lowest energy.
func NewEnergyField(imp *field.Field, contentBias float64) *EnergyField {
	f := imp.Clone()
	f.Scale(-contentBias)
	return &EnergyField{f: f}
}

// At returns the energy at column x, row y.
func (e *EnergyField) At(x, y int) float64 {
	return e.f.At(x, y)
}

// Add deposits the kernel centered at c with toroidal wrapping: offsets
// wrap modulo the field dimensions, so repulsion near one edge is felt at
// the opposite edge. Excluded (+Inf) cells are unaffected by the addition.
func (e *EnergyField) Add(k *Kernel, c geometry.PointInt) {
	size := k.size
	if len(e.wrapX) < size {
		e.wrapX = make([]int, size)
		e.wrapY = make([]int, size)
	}
	wrapX := e.wrapX[:size]
	wrapY := e.wrapY[:size]
	for i := 0; i < size; i++ {
		wrapX[i] = mod(c.X+i-k.half, e.f.W)
		wrapY[i] = mod(c.Y+i-k.half, e.f.H)
	}

	for ky := 0; ky < size; ky++ {
		row := e.f.Data[wrapY[ky]*e.f.W:]
		wrow := k.weights[ky*size:]
		for kx := 0; kx < size; kx++ {
			row[wrapX[kx]] += wrow[kx]
		}
	}
}

// Exclude sets the cell's energy to +Inf, removing it from all future
// minimum searches.
func (e *EnergyField) Exclude(c geometry.PointInt) {
	e.f.Set(c.X, c.Y, math.Inf(1))
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
