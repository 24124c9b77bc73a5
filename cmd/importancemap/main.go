// Command importancemap computes the importance map for an image, prints
// its tonal distribution, and writes a heatmap rendering. Useful when
// tuning the curve parameters before a long stippling run.
package main

import (
	"flag"
	"fmt"
	"os"

	"stipplegen/internal/imageio"
	"stipplegen/internal/importance"
	"stipplegen/internal/render"

	"gonum.org/v1/gonum/stat"
)

func main() {
	imagePath := flag.String("image", "", "Path to input image")
	outPath := flag.String("out", "importance.png", "Heatmap output path")
	maxSize := flag.Int("max-size", 512, "Maximum size of the longest side; 0 disables resizing")
	midCenter := flag.Float64("mid-center", 0.65, "Mid-tone boost center brightness")
	midSigma := flag.Float64("mid-sigma", 0.2, "Mid-tone boost width")
	midBoost := flag.Float64("mid-boost", 1.5, "Mid-tone boost gain")
	darkThresh := flag.Float64("dark", 0.2, "Dark roll-off threshold")
	lightThresh := flag.Float64("light", 0.8, "Light roll-off threshold")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: importancemap -image <path> [-out importance.png]")
		os.Exit(1)
	}

	img, err := imageio.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	gray := imageio.ToGray(imageio.FitWithin(img, *maxSize))
	fmt.Printf("Image size: %dx%d\n", gray.W, gray.H)

	params := importance.DefaultParams().
		WithThresholds(*darkThresh, *lightThresh).
		WithMidTone(*midCenter, *midSigma, *midBoost)

	imp, err := importance.Compute(gray, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importance computation failed: %v\n", err)
		os.Exit(1)
	}

	mean, std := stat.MeanStdDev(imp.Data, nil)
	fmt.Printf("\nImportance distribution:\n")
	fmt.Printf("  mean %.4f  stddev %.4f  min %.4f  max %.4f\n",
		mean, std, imp.Min(), imp.Max())

	// Decile histogram of importance mass
	var hist [10]int
	for _, v := range imp.Data {
		b := int(v * 10)
		if b > 9 {
			b = 9
		}
		hist[b]++
	}
	fmt.Printf("\n%-12s %10s %8s\n", "Bucket", "Pixels", "Share")
	for i, n := range hist {
		fmt.Printf("[%.1f, %.1f)  %10d %7.1f%%\n",
			float64(i)/10, float64(i+1)/10, n, 100*float64(n)/float64(len(imp.Data)))
	}

	if err := imageio.SavePNG(*outPath, render.Heatmap(imp)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save heatmap: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nSaved heatmap: %s\n", *outPath)
}
