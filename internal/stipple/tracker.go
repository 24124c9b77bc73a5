package stipple

import (
	"math"

	"stipplegen/pkg/geometry"
)

// minTracker abstracts the global-minimum search over the energy field so
// the backing structure can be swapped without touching the placement loop.
// All implementations return the exact minimum under the same tie-break
// rule: lowest energy, then smallest squared distance to the anchor point,
// then row-major order.
type minTracker interface {
	// searchMin returns the row-major index of the winning cell, or -1 if
	// no finite-energy cell remains. noise, when non-nil, is a transient
	// per-cell perturbation; it is consumed exactly once per cell in
	// row-major order so the random stream stays reproducible.
	searchMin(anchor geometry.Point2D, noise func() float64) int

	// bump reports that the kernel's wrapped footprint centered at c was
	// added to the field.
	bump(c geometry.PointInt, k *Kernel)

	// exclude reports that the cell at idx was set to +Inf.
	exclude(idx int)
}

// scanTracker searches by exhaustive row-major scan. O(H·W) per point but
// no bookkeeping; it is also the only tracker that supports annealing
// noise, since fresh per-cell noise invalidates any cached minima.
type scanTracker struct {
	e *EnergyField
}

func (t *scanTracker) searchMin(anchor geometry.Point2D, noise func() float64) int {
	return scanRange(t.e, 0, len(t.e.f.Data), anchor, noise)
}

func (t *scanTracker) bump(geometry.PointInt, *Kernel) {}

func (t *scanTracker) exclude(int) {}

// scanRange finds the tie-broken minimum over cells [lo, hi). When noise is
// non-nil it is invoked for every cell in the range, including excluded
// ones, to keep generator consumption independent of field contents.
func scanRange(e *EnergyField, lo, hi int, anchor geometry.Point2D, noise func() float64) int {
	w := e.f.W
	best := math.Inf(1)
	bestIdx := -1
	bestD := math.Inf(1)

	for i := lo; i < hi; i++ {
		v := e.f.Data[i]
		if noise != nil {
			v += noise()
		}
		if v > best || math.IsInf(v, 1) {
			continue
		}
		dx := float64(i%w) - anchor.X
		dy := float64(i/w) - anchor.Y
		d := dx*dx + dy*dy
		if v < best || d < bestD {
			best = v
			bestIdx = i
			bestD = d
		}
	}
	return bestIdx
}

// blockBits sets the coarse block size (2^blockBits cells per axis) for
// blockTracker.
const blockBits = 5

// blockTracker caches the minimum energy of coarse square blocks and only
// rescans blocks touched since the last search. Exact-minimum semantics are
// preserved: blocks cache values, not winners, and every block holding the
// global minimum value is rescanned so ties resolve identically to the
// exhaustive scan. Requires noise-free searches.
type blockTracker struct {
	e      *EnergyField
	bw, bh int // blocks per axis
	mins   []float64
	dirty  []bool
}

func newBlockTracker(e *EnergyField) *blockTracker {
	bw := (e.f.W + (1 << blockBits) - 1) >> blockBits
	bh := (e.f.H + (1 << blockBits) - 1) >> blockBits
	t := &blockTracker{
		e:     e,
		bw:    bw,
		bh:    bh,
		mins:  make([]float64, bw*bh),
		dirty: make([]bool, bw*bh),
	}
	for i := range t.dirty {
		t.dirty[i] = true
	}
	return t
}

func (t *blockTracker) searchMin(anchor geometry.Point2D, noise func() float64) int {
	if noise != nil {
		// Per-cell noise defeats the cache; fall back to the full scan.
		return scanRange(t.e, 0, len(t.e.f.Data), anchor, noise)
	}

	best := math.Inf(1)
	for b := range t.mins {
		if t.dirty[b] {
			t.refresh(b)
		}
		if t.mins[b] < best {
			best = t.mins[b]
		}
	}
	if math.IsInf(best, 1) {
		return -1
	}

	w := t.e.f.W
	bestIdx := -1
	bestD := math.Inf(1)
	for b := range t.mins {
		if t.mins[b] != best {
			continue
		}
		t.scanBlock(b, func(idx int, v float64) {
			if v != best {
				return
			}
			dx := float64(idx%w) - anchor.X
			dy := float64(idx/w) - anchor.Y
			d := dx*dx + dy*dy
			if bestIdx == -1 || d < bestD || (d == bestD && idx < bestIdx) {
				bestIdx = idx
				bestD = d
			}
		})
	}
	return bestIdx
}

func (t *blockTracker) bump(c geometry.PointInt, k *Kernel) {
	t.markAxis(c.X, k.half, t.e.f.W, func(bx int) {
		t.markAxis(c.Y, k.half, t.e.f.H, func(by int) {
			t.dirty[by*t.bw+bx] = true
		})
	})
}

func (t *blockTracker) exclude(idx int) {
	bx := (idx % t.e.f.W) >> blockBits
	by := (idx / t.e.f.W) >> blockBits
	t.dirty[by*t.bw+bx] = true
}

// markAxis visits the block indices covered by the wrapped interval
// [center-half, center+half] along an axis of length dim. mark receives a
// block x index when called from bump's outer pass and a block y index from
// the inner pass.
func (t *blockTracker) markAxis(center, half, dim int, mark func(b int)) {
	blocks := t.bw
	if dim == t.e.f.H {
		blocks = t.bh
	}
	if 2*half+1 >= dim {
		for b := 0; b < blocks; b++ {
			mark(b)
		}
		return
	}
	seen := -1
	for v := center - half; v <= center+half; v++ {
		b := mod(v, dim) >> blockBits
		if b != seen {
			mark(b)
			seen = b
		}
	}
}

func (t *blockTracker) refresh(b int) {
	min := math.Inf(1)
	t.scanBlock(b, func(_ int, v float64) {
		if v < min {
			min = v
		}
	})
	t.mins[b] = min
	t.dirty[b] = false
}

func (t *blockTracker) scanBlock(b int, visit func(idx int, v float64)) {
	f := t.e.f
	x0 := (b % t.bw) << blockBits
	y0 := (b / t.bw) << blockBits
	x1 := x0 + (1 << blockBits)
	y1 := y0 + (1 << blockBits)
	if x1 > f.W {
		x1 = f.W
	}
	if y1 > f.H {
		y1 = f.H
	}
	for y := y0; y < y1; y++ {
		row := y * f.W
		for x := x0; x < x1; x++ {
			visit(row+x, f.Data[row+x])
		}
	}
}
