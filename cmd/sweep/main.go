// Command sweep runs the stippler across a grid of coverage/repulsion
// parameter combinations and writes a labelled comparison figure.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"stipplegen/internal/imageio"
	"stipplegen/internal/importance"
	"stipplegen/internal/render"
	"stipplegen/internal/stipple"
)

type combo struct {
	name       string
	percentage float64
	sigma      float64
}

// The canonical sweep: density and repulsion width around the defaults.
var combos = []combo{
	{"Sparse, Small", 0.05, 0.7},
	{"Default", 0.08, 0.9},
	{"Dense, Large", 0.12, 1.1},
	{"Tight Repulsion", 0.08, 0.5},
	{"Wide Repulsion", 0.08, 1.5},
	{"Very Dense", 0.15, 0.9},
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	imagePath := flag.String("image", "", "Path to input image")
	outDir := flag.String("out", "outputs", "Output directory")
	maxSize := flag.Int("max-size", 512, "Maximum size of the longest side; 0 disables resizing")
	seed := flag.Int64("seed", 0, "Random seed shared by all runs")
	cols := flag.Int("cols", 3, "Figure grid columns")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: sweep -image <path> [-out outputs] [-seed 0]")
		os.Exit(1)
	}

	img, err := imageio.Load(*imagePath)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	gray := imageio.ToGray(imageio.FitWithin(img, *maxSize))
	log.Printf("Image size: %dx%d", gray.W, gray.H)

	imp, err := importance.Compute(gray, importance.DefaultParams())
	if err != nil {
		log.Fatalf("importance: %v", err)
	}

	panels := make([]image.Image, 0, len(combos))
	labels := make([]string, 0, len(combos))
	for _, c := range combos {
		log.Printf("Running %q (percentage=%.2f sigma=%.1f)", c.name, c.percentage, c.sigma)

		cfg := stipple.DefaultConfig().WithSeed(*seed).WithCoverage(c.percentage, c.sigma)
		result, err := stipple.Place(imp, cfg)
		if err != nil {
			log.Fatalf("%s: %v", c.name, err)
		}

		panels = append(panels, render.Stipple(result.Points, imp.W, imp.H, 0))
		labels = append(labels, fmt.Sprintf("%s (%.0f%%, s=%.1f)", c.name, c.percentage*100, c.sigma))
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("output directory: %v", err)
	}
	sweepPath := filepath.Join(*outDir, "sweep.png")
	if err := imageio.SavePNG(sweepPath, render.Grid(panels, labels, *cols)); err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("Saved sweep comparison: %s", sweepPath)
}
