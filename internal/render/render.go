// Package render rasterizes placement results: the stipple image itself,
// diagnostic panels, and the progressive animation.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"stipplegen/internal/field"
	"stipplegen/pkg/geometry"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	labelHeight = 16
	panelMargin = 8
)

// Stipple draws the point sequence as black dots on a white background.
// dotRadius 0 paints single pixels; larger values paint filled discs.
func Stipple(points []geometry.PointInt, w, h, dotRadius int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for _, p := range points {
		stampDot(img, p.X, p.Y, dotRadius)
	}
	return img
}

// stampDot paints a filled black disc clipped to the image bounds.
func stampDot(img *image.Gray, cx, cy, radius int) {
	if radius <= 0 {
		img.SetGray(cx, cy, color.Gray{})
		return
	}
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			x, y := cx+dx, cy+dy
			if x >= 0 && x < w && y >= 0 && y < h {
				img.SetGray(x, y, color.Gray{})
			}
		}
	}
}

// GrayImage renders a [0,1] field as an 8-bit grayscale image.
func GrayImage(f *field.Field) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			img.SetGray(x, y, color.Gray{Y: clamp8(f.At(x, y) * 255)})
		}
	}
	return img
}

// Heatmap renders a [0,1] field with a viridis-style colormap, used for the
// importance-map diagnostic panel.
func Heatmap(f *field.Field) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			img.SetRGBA(x, y, viridis(f.At(x, y)))
		}
	}
	return img
}

// viridis control points, sampled from the reference colormap.
var viridisStops = [][3]float64{
	{68, 1, 84},
	{72, 40, 120},
	{62, 74, 137},
	{49, 104, 142},
	{38, 130, 142},
	{31, 158, 137},
	{53, 183, 121},
	{109, 205, 89},
	{180, 222, 44},
	{253, 231, 37},
}

func viridis(v float64) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	pos := v * float64(len(viridisStops)-1)
	i := int(pos)
	if i >= len(viridisStops)-1 {
		s := viridisStops[len(viridisStops)-1]
		return color.RGBA{R: uint8(s[0]), G: uint8(s[1]), B: uint8(s[2]), A: 255}
	}
	t := pos - float64(i)
	a, b := viridisStops[i], viridisStops[i+1]
	return color.RGBA{
		R: clamp8(a[0] + t*(b[0]-a[0])),
		G: clamp8(a[1] + t*(b[1]-a[1])),
		B: clamp8(a[2] + t*(b[2]-a[2])),
		A: 255,
	}
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Grid lays out panels left to right, top to bottom, with a text label
// above each. Panels of unequal size are aligned to a common cell.
func Grid(panels []image.Image, labels []string, cols int) *image.RGBA {
	if cols <= 0 {
		cols = 1
	}
	rows := (len(panels) + cols - 1) / cols

	cellW, cellH := 0, 0
	for _, p := range panels {
		if w := p.Bounds().Dx(); w > cellW {
			cellW = w
		}
		if h := p.Bounds().Dy(); h > cellH {
			cellH = h
		}
	}
	cellW += panelMargin
	cellH += panelMargin + labelHeight

	out := image.NewRGBA(image.Rect(0, 0, cols*cellW+panelMargin, rows*cellH+panelMargin))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	for i, p := range panels {
		col := i % cols
		row := i / cols
		x0 := panelMargin + col*cellW
		y0 := panelMargin + row*cellH

		if i < len(labels) && labels[i] != "" {
			drawLabel(out, labels[i], x0, y0+labelHeight-4)
		}

		r := p.Bounds()
		dst := image.Rect(x0, y0+labelHeight, x0+r.Dx(), y0+labelHeight+r.Dy())
		draw.Draw(out, dst, p, r.Min, draw.Src)
	}
	return out
}

// Comparison builds the 3-panel figure: original image, importance heatmap,
// and stippled result.
func Comparison(original, imp *field.Field, stippled image.Image) *image.RGBA {
	panels := []image.Image{GrayImage(original), Heatmap(imp), stippled}
	labels := []string{"Original", "Importance", "Stippled"}
	return Grid(panels, labels, 3)
}

func drawLabel(dst draw.Image, text string, x, y int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
