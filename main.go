// Command stipplegen converts a photograph into a blue-noise stipple
// drawing and a progressive placement animation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"stipplegen/internal/imageio"
	"stipplegen/internal/importance"
	"stipplegen/internal/preprocess"
	"stipplegen/internal/render"
	"stipplegen/internal/stipple"
	"stipplegen/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	imagePath := flag.String("image", "", "Path to input image (PNG, JPEG, or TIFF)")
	outDir := flag.String("out", "outputs", "Output directory")
	percentage := flag.Float64("percentage", 0.08, "Fraction of pixels to stipple, in (0,1]")
	sigma := flag.Float64("sigma", 0.9, "Repulsion kernel sigma in pixels")
	contentBias := flag.Float64("content-bias", 0.9, "Importance bias in [0,1]; 0 gives pure blue noise")
	noiseScale := flag.Float64("noise-scale", 0.1, "Annealing noise strength in [0,1]")
	frameInc := flag.Int("frame-increment", 100, "Points added per animation frame")
	maxSize := flag.Int("max-size", 512, "Maximum size of the longest side; 0 disables resizing")
	seed := flag.Int64("seed", 0, "Random seed for reproducible runs")
	dotRadius := flag.Int("dot-radius", 0, "Dot radius in pixels; 0 paints single pixels")
	comparison := flag.Bool("comparison", false, "Also write a 3-panel comparison figure")
	blurSigma := flag.Float64("blur", 0, "Pre-filter Gaussian blur sigma; 0 disables")
	clahe := flag.Bool("clahe", false, "Pre-filter CLAHE contrast equalization")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: stipplegen -image <path> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Printf("stipplegen v%s", version.Version)

	if err := run(*imagePath, *outDir, runOptions{
		percentage: *percentage,
		sigma:      *sigma,
		bias:       *contentBias,
		noise:      *noiseScale,
		frameInc:   *frameInc,
		maxSize:    *maxSize,
		seed:       *seed,
		dotRadius:  *dotRadius,
		comparison: *comparison,
		blurSigma:  *blurSigma,
		clahe:      *clahe,
	}); err != nil {
		log.Fatalf("stippling failed: %v", err)
	}
}

type runOptions struct {
	percentage float64
	sigma      float64
	bias       float64
	noise      float64
	frameInc   int
	maxSize    int
	seed       int64
	dotRadius  int
	comparison bool
	blurSigma  float64
	clahe      bool
}

func run(imagePath, outDir string, opts runOptions) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	log.Printf("Loading image: %s", imagePath)
	img, err := imageio.Load(imagePath)
	if err != nil {
		return err
	}
	img = imageio.FitWithin(img, opts.maxSize)
	gray := imageio.ToGray(img)
	log.Printf("Image size: %dx%d", gray.W, gray.H)

	pre := preprocess.DefaultParams()
	pre.BlurSigma = opts.blurSigma
	pre.CLAHE = opts.clahe
	if pre.Enabled() {
		log.Printf("Preprocessing (blur=%.2f clahe=%v)...", pre.BlurSigma, pre.CLAHE)
		if gray, err = preprocess.Apply(gray, pre); err != nil {
			return err
		}
	}

	log.Println("Computing importance map...")
	imp, err := importance.Compute(gray, importance.DefaultParams())
	if err != nil {
		return err
	}

	cfg := stipple.DefaultConfig().WithSeed(opts.seed)
	cfg.Percentage = opts.percentage
	cfg.Sigma = opts.sigma
	cfg.ContentBias = opts.bias
	cfg.NoiseScale = opts.noise
	cfg.FrameIncrement = opts.frameInc

	log.Printf("Placing stipples (%.1f%% coverage)...", cfg.Percentage*100)
	result, err := stipple.Place(imp, cfg)
	if err != nil {
		return err
	}
	if result.Clamped {
		log.Printf("Warning: requested count exceeded pixel count; clamped to %d points", len(result.Points))
	}
	log.Printf("Placed %d stipples", len(result.Points))

	stipplePath := filepath.Join(outDir, "stipple.png")
	log.Printf("Saving stipple image: %s", stipplePath)
	stippled := render.Stipple(result.Points, imp.W, imp.H, opts.dotRadius)
	if err := imageio.SavePNG(stipplePath, stippled); err != nil {
		return err
	}

	gifPath := filepath.Join(outDir, "progressive.gif")
	log.Printf("Creating progressive GIF: %s", gifPath)
	anim := render.ProgressiveGIF(result.Points, imp.W, imp.H, cfg.FrameIncrement, opts.dotRadius, 10)
	if err := render.SaveGIF(gifPath, anim); err != nil {
		return err
	}

	if opts.comparison {
		cmpPath := filepath.Join(outDir, "comparison.png")
		log.Printf("Creating comparison figure: %s", cmpPath)
		if err := imageio.SavePNG(cmpPath, render.Comparison(gray, imp, stippled)); err != nil {
			return err
		}
	}

	log.Println("Done")
	return nil
}
