// Package imageio loads input photographs and converts them to the
// normalized grayscale grids the stippling pipeline consumes.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"

	"stipplegen/internal/field"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Load decodes an image from disk. PNG, JPEG, and TIFF are recognized.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// FitWithin downscales img so its longest side is at most maxSize,
// preserving aspect ratio. Images already within the bound are returned
// unchanged. CatmullRom resampling keeps tonal gradients smooth enough for
// importance mapping.
func FitWithin(img image.Image, maxSize int) image.Image {
	if maxSize <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}

	var nw, nh int
	if w > h {
		nw = maxSize
		nh = h * maxSize / w
	} else {
		nh = maxSize
		nw = w * maxSize / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// ToGray converts an image to an H×W brightness field with values in
// [0, 1], using the standard luma weights.
func ToGray(img image.Image) *field.Field {
	b := img.Bounds()
	f, _ := field.New(b.Dx(), b.Dy())
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			f.Set(x, y, float64(c.Y)/255)
		}
	}
	return f
}

// SavePNG writes img to path as PNG, creating the file if needed.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
