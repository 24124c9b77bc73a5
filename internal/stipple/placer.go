package stipple

import (
	"errors"
	"fmt"
	"math/rand"

	"stipplegen/internal/field"
	"stipplegen/pkg/geometry"
)

// Validation and run errors.
var (
	ErrInvalidDimensions     = errors.New("stipple: field dimensions must be positive")
	ErrInvalidPercentage     = errors.New("stipple: percentage outside (0,1]")
	ErrInvalidSigma          = errors.New("stipple: sigma must be positive")
	ErrInvalidContentBias    = errors.New("stipple: content bias outside [0,1]")
	ErrInvalidNoiseScale     = errors.New("stipple: noise scale outside [0,1]")
	ErrInvalidFrameIncrement = errors.New("stipple: frame increment must be positive")

	// ErrNoFiniteCell indicates every cell was excluded before the target
	// count was reached. It cannot happen with a validated configuration
	// and signals a capacity accounting bug upstream.
	ErrNoFiniteCell = errors.New("stipple: no finite-energy cell remaining")
)

// TrackerKind selects the minimum-search backing structure.
type TrackerKind int

const (
	// TrackerAuto picks the block tracker when annealing noise is
	// disabled and the exhaustive scan otherwise.
	TrackerAuto TrackerKind = iota
	// TrackerScan forces the exhaustive row-major scan.
	TrackerScan
	// TrackerBlocks forces the coarse-block cached tracker. Searches fall
	// back to the exhaustive scan while annealing noise is active.
	TrackerBlocks
)

// Config holds the placement parameters. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Percentage is the fraction of pixels that receive a dot, in (0,1].
	Percentage float64

	// Sigma is the Gaussian width of the repulsion kernel, in pixels.
	Sigma float64

	// ContentBias in [0,1] controls how strongly the importance map steers
	// placement. Zero degenerates to a pure blue-noise distribution.
	ContentBias float64

	// NoiseScale in [0,1] sets the initial magnitude of the annealing
	// noise. The perturbation decays linearly to zero as placement
	// progresses; zero disables it entirely.
	NoiseScale float64

	// FrameIncrement is the snapshot cadence in points.
	FrameIncrement int

	// Seed initializes the run's random generator. Runs with equal inputs
	// and seeds produce identical point sequences.
	Seed int64

	// Tracker selects the minimum-search implementation.
	Tracker TrackerKind

	// Snapshot, when non-nil, is invoked with the point sequence placed so
	// far each time its length reaches a multiple of FrameIncrement. The
	// slice is reused between calls; callers must copy to retain it.
	Snapshot func(points []geometry.PointInt)
}

// DefaultConfig returns the standard placement parameters.
func DefaultConfig() Config {
	return Config{
		Percentage:     0.08,
		Sigma:          0.9,
		ContentBias:    0.9,
		NoiseScale:     0.1,
		FrameIncrement: 100,
	}
}

// WithSeed returns a copy of the config with the given random seed.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = seed
	return c
}

// WithCoverage returns a copy of the config with custom coverage and
// repulsion width.
func (c Config) WithCoverage(percentage, sigma float64) Config {
	c.Percentage = percentage
	c.Sigma = sigma
	return c
}

// Validate checks the configuration, failing fast before any allocation.
func (c Config) Validate() error {
	if c.Percentage <= 0 || c.Percentage > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidPercentage, c.Percentage)
	}
	if c.Sigma <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidSigma, c.Sigma)
	}
	if c.ContentBias < 0 || c.ContentBias > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidContentBias, c.ContentBias)
	}
	if c.NoiseScale < 0 || c.NoiseScale > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidNoiseScale, c.NoiseScale)
	}
	if c.FrameIncrement <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFrameIncrement, c.FrameIncrement)
	}
	return nil
}

// Result is the outcome of a placement run.
type Result struct {
	// Points holds the placed coordinates in placement order. The order is
	// meaningful; progressive rendering replays it.
	Points []geometry.PointInt

	// Intensities holds the importance value under each point, parallel to
	// Points.
	Intensities []float64

	// Clamped reports that the requested count exceeded the pixel count
	// and was reduced to one point per pixel.
	Clamped bool
}

// Place runs the void-and-cluster loop over the importance map and returns
// the ordered point sequence. The energy field is created, mutated, and
// discarded entirely within the call; imp itself is never modified.
func Place(imp *field.Field, cfg Config) (*Result, error) {
	if imp == nil || imp.W <= 0 || imp.H <= 0 {
		return nil, ErrInvalidDimensions
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	total := imp.W * imp.H
	n := int(cfg.Percentage * float64(total))
	res := &Result{}
	if n > total {
		n = total
		res.Clamped = true
	}
	if n == 0 {
		return res, nil
	}

	kernel, err := NewKernel(cfg.Sigma)
	if err != nil {
		return nil, err
	}

	energy := NewEnergyField(imp, cfg.ContentBias)
	var tracker minTracker
	switch cfg.Tracker {
	case TrackerScan:
		tracker = &scanTracker{e: energy}
	case TrackerBlocks:
		tracker = newBlockTracker(energy)
	default:
		if cfg.NoiseScale > 0 {
			tracker = &scanTracker{e: energy}
		} else {
			tracker = newBlockTracker(energy)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	res.Points = make([]geometry.PointInt, 0, n)
	res.Intensities = make([]float64, 0, n)

	// First point: global minimum of the initial field, ties broken by
	// distance to the image center. Seeds placement near the visual focal
	// point for portrait-like inputs.
	center := geometry.Point2D{X: float64(imp.W-1) / 2, Y: float64(imp.H-1) / 2}
	anchor := center

	for len(res.Points) < n {
		var noise func() float64
		if i := len(res.Points); i > 0 && cfg.NoiseScale > 0 {
			amp := cfg.NoiseScale * (1 - float64(i)/float64(n))
			if amp > 0 {
				noise = func() float64 { return rng.NormFloat64() * amp }
			}
		}

		idx := tracker.searchMin(anchor, noise)
		if idx < 0 {
			return res, fmt.Errorf("%w after %d of %d points", ErrNoFiniteCell, len(res.Points), n)
		}
		pt := geometry.PointInt{X: idx % imp.W, Y: idx / imp.W}

		res.Points = append(res.Points, pt)
		res.Intensities = append(res.Intensities, imp.Data[idx])

		energy.Add(kernel, pt)
		tracker.bump(pt, kernel)
		energy.Exclude(pt)
		tracker.exclude(idx)

		if cfg.Snapshot != nil && len(res.Points)%cfg.FrameIncrement == 0 {
			cfg.Snapshot(res.Points)
		}

		// Subsequent ties resolve toward the most recent placement.
		anchor = pt.ToFloat()
	}

	return res, nil
}
