package render

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"stipplegen/pkg/geometry"
)

var gifPalette = color.Palette{
	color.White,
	color.Black,
}

// ProgressiveGIF builds an animation that replays the point sequence in
// placement order, adding frameIncrement points per frame. The final frame
// always shows the complete sequence. delay is per frame in hundredths of a
// second.
func ProgressiveGIF(points []geometry.PointInt, w, h, frameIncrement, dotRadius, delay int) *gif.GIF {
	if frameIncrement <= 0 {
		frameIncrement = 1
	}

	counts := make([]int, 0, len(points)/frameIncrement+2)
	for n := frameIncrement; n < len(points); n += frameIncrement {
		counts = append(counts, n)
	}
	counts = append(counts, len(points))

	anim := &gif.GIF{}
	for _, n := range counts {
		frame := image.NewPaletted(image.Rect(0, 0, w, h), gifPalette)
		// palette index 0 is white; Paletted zero value is already the
		// background
		for _, p := range points[:n] {
			stampPaletted(frame, p.X, p.Y, dotRadius)
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	return anim
}

func stampPaletted(img *image.Paletted, cx, cy, radius int) {
	if radius <= 0 {
		img.SetColorIndex(cx, cy, 1)
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
				img.SetColorIndex(x, y, 1)
			}
		}
	}
}

// SaveGIF writes the animation to path.
func SaveGIF(path string, anim *gif.GIF) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, anim); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
