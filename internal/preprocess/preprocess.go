// Package preprocess offers optional OpenCV-backed filters applied to the
// grayscale image before importance mapping: Gaussian blur to suppress
// sensor noise and CLAHE to recover contrast in flat scans. The core
// pipeline never requires this stage.
package preprocess

import (
	"fmt"
	"image"

	"stipplegen/internal/field"

	"gocv.io/x/gocv"
)

// Params configures the preprocessing filters. The zero value disables
// everything.
type Params struct {
	// BlurSigma enables Gaussian smoothing when positive, in pixels.
	BlurSigma float64

	// CLAHE enables contrast-limited adaptive histogram equalization.
	CLAHE     bool
	ClipLimit float64
	TileSize  int
}

// DefaultParams returns the filter defaults with everything disabled.
func DefaultParams() Params {
	return Params{
		ClipLimit: 2.0,
		TileSize:  8,
	}
}

// Enabled reports whether any filter would run.
func (p Params) Enabled() bool {
	return p.BlurSigma > 0 || p.CLAHE
}

// Apply runs the enabled filters over a [0,1] brightness field and returns
// a new field; the input is never modified. With no filters enabled the
// input is returned as is.
func Apply(f *field.Field, p Params) (*field.Field, error) {
	if !p.Enabled() {
		return f, nil
	}
	if p.CLAHE && (p.ClipLimit <= 0 || p.TileSize <= 0) {
		return nil, fmt.Errorf("invalid CLAHE parameters: clip %g tile %d", p.ClipLimit, p.TileSize)
	}

	mat := toMat(f)
	defer mat.Close()

	if p.BlurSigma > 0 {
		blurred := gocv.NewMat()
		gocv.GaussianBlur(mat, &blurred, image.Point{}, p.BlurSigma, p.BlurSigma, gocv.BorderDefault)
		mat.Close()
		mat = blurred
	}

	if p.CLAHE {
		clahe := gocv.NewCLAHEWithParams(p.ClipLimit, image.Point{X: p.TileSize, Y: p.TileSize})
		defer clahe.Close()

		equalized := gocv.NewMat()
		clahe.Apply(mat, &equalized)
		mat.Close()
		mat = equalized
	}

	return fromMat(mat, f.W, f.H)
}

// toMat converts a [0,1] field to an 8-bit single-channel Mat.
func toMat(f *field.Field) gocv.Mat {
	mat := gocv.NewMatWithSize(f.H, f.W, gocv.MatTypeCV8U)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			v := f.At(x, y) * 255
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			mat.SetUCharAt(y, x, uint8(v+0.5))
		}
	}
	return mat
}

// fromMat converts an 8-bit single-channel Mat back to a [0,1] field.
func fromMat(mat gocv.Mat, w, h int) (*field.Field, error) {
	if mat.Rows() != h || mat.Cols() != w {
		return nil, fmt.Errorf("filter changed dimensions: %dx%d -> %dx%d",
			w, h, mat.Cols(), mat.Rows())
	}
	f, err := field.New(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, float64(mat.GetUCharAt(y, x))/255)
		}
	}
	return f, nil
}
