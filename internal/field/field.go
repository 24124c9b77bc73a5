// Package field provides the scalar pixel grid shared by the importance
// and placement stages.
package field

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Field is a dense H×W grid of float64 values in row-major order.
// It backs grayscale images, importance maps, and energy fields.
type Field struct {
	W    int
	H    int
	Data []float64
}

// New creates a zero-filled field. Width and height must be positive.
func New(w, h int) (*Field, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid field dimensions %dx%d", w, h)
	}
	return &Field{W: w, H: h, Data: make([]float64, w*h)}, nil
}

// Index returns the row-major offset of (x, y).
func (f *Field) Index(x, y int) int {
	return y*f.W + x
}

// At returns the value at column x, row y.
func (f *Field) At(x, y int) float64 {
	return f.Data[y*f.W+x]
}

// Set stores v at column x, row y.
func (f *Field) Set(x, y int, v float64) {
	f.Data[y*f.W+x] = v
}

// Fill sets every cell to v.
func (f *Field) Fill(v float64) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	data := make([]float64, len(f.Data))
	copy(data, f.Data)
	return &Field{W: f.W, H: f.H, Data: data}
}

// Min returns the smallest cell value.
func (f *Field) Min() float64 {
	return floats.Min(f.Data)
}

// Max returns the largest cell value.
func (f *Field) Max() float64 {
	return floats.Max(f.Data)
}

// Scale multiplies every cell by c in place.
func (f *Field) Scale(c float64) {
	floats.Scale(c, f.Data)
}

// Normalize linearly rescales the field to [0, 1] in place using the
// observed min and max. A flat field degenerates to all ones, which
// callers rely on as the uniform fallback.
func (f *Field) Normalize() {
	lo := floats.Min(f.Data)
	hi := floats.Max(f.Data)
	if hi <= lo {
		f.Fill(1)
		return
	}
	floats.AddConst(-lo, f.Data)
	floats.Scale(1/(hi-lo), f.Data)
}
