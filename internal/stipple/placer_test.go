package stipple

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat"

	"stipplegen/internal/field"
	"stipplegen/internal/importance"
	"stipplegen/pkg/geometry"
)

func uniformMap(w, h int) *field.Field {
	f, _ := field.New(w, h)
	f.Fill(1)
	return f
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero percentage", func(c *Config) { c.Percentage = 0 }, ErrInvalidPercentage},
		{"percentage above one", func(c *Config) { c.Percentage = 1.5 }, ErrInvalidPercentage},
		{"zero sigma", func(c *Config) { c.Sigma = 0 }, ErrInvalidSigma},
		{"negative bias", func(c *Config) { c.ContentBias = -0.1 }, ErrInvalidContentBias},
		{"bias above one", func(c *Config) { c.ContentBias = 1.1 }, ErrInvalidContentBias},
		{"negative noise", func(c *Config) { c.NoiseScale = -0.2 }, ErrInvalidNoiseScale},
		{"zero frame increment", func(c *Config) { c.FrameIncrement = 0 }, ErrInvalidFrameIncrement},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if _, err := Place(uniformMap(8, 8), cfg); !errors.Is(err, tc.want) {
				t.Errorf("Place error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPlaceRejectsNilOrEmptyField(t *testing.T) {
	if _, err := Place(nil, DefaultConfig()); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Place(nil) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestCardinalityBoundsUniqueness(t *testing.T) {
	imp := uniformMap(24, 16)
	cfg := DefaultConfig().WithSeed(7)
	cfg.Percentage = 0.1

	res, err := Place(imp, cfg)
	if err != nil {
		t.Fatal(err)
	}

	wantN := int(cfg.Percentage * float64(24*16))
	if len(res.Points) != wantN {
		t.Fatalf("placed %d points, want %d", len(res.Points), wantN)
	}
	if len(res.Intensities) != wantN {
		t.Fatalf("got %d intensities, want %d", len(res.Intensities), wantN)
	}

	seen := make(map[geometry.PointInt]bool, wantN)
	for _, p := range res.Points {
		if p.X < 0 || p.X >= 24 || p.Y < 0 || p.Y >= 16 {
			t.Fatalf("point %v out of bounds", p)
		}
		if seen[p] {
			t.Fatalf("duplicate point %v", p)
		}
		seen[p] = true
	}
}

func TestDeterminism(t *testing.T) {
	imp, _ := field.New(32, 32)
	for i := range imp.Data {
		imp.Data[i] = float64(i%97) / 96
	}
	cfg := DefaultConfig().WithSeed(42)
	cfg.Percentage = 0.05

	a, err := Place(imp, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Place(imp, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Points) != len(b.Points) {
		t.Fatalf("runs differ in length: %d vs %d", len(a.Points), len(b.Points))
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Fatalf("runs diverge at point %d: %v vs %v", i, a.Points[i], b.Points[i])
		}
	}
}

// Both minimum trackers must produce the identical sequence when annealing
// noise is off.
func TestTrackerEquivalence(t *testing.T) {
	imp, _ := field.New(48, 40)
	for i := range imp.Data {
		imp.Data[i] = 0.2 + 0.6*float64(i%53)/52
	}

	base := DefaultConfig()
	base.Percentage = 0.04
	base.NoiseScale = 0

	scanCfg := base
	scanCfg.Tracker = TrackerScan
	blockCfg := base
	blockCfg.Tracker = TrackerBlocks

	a, err := Place(imp, scanCfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Place(imp, blockCfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Points) != len(b.Points) {
		t.Fatalf("trackers differ in length: %d vs %d", len(a.Points), len(b.Points))
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Fatalf("trackers diverge at point %d: scan %v, blocks %v", i, a.Points[i], b.Points[i])
		}
	}
}

// Hand-verifiable scenario: a flat 4x4 map with content bias zero and
// sigma 1 places four points one per 2x2 quadrant. The first point falls
// closest to the center (row-major among the four equidistant cells), the
// second at the toroidally farthest cell, and the remaining two fill the
// off-diagonal quadrants.
func TestQuadrantScenario(t *testing.T) {
	imp := uniformMap(4, 4)
	cfg := DefaultConfig()
	cfg.Percentage = 0.25 // 4 of 16 cells
	cfg.Sigma = 1.0
	cfg.ContentBias = 0
	cfg.NoiseScale = 0

	res, err := Place(imp, cfg)
	if err != nil {
		t.Fatal(err)
	}

	want := []geometry.PointInt{
		{X: 1, Y: 1},
		{X: 3, Y: 3},
		{X: 3, Y: 1},
		{X: 1, Y: 3},
	}
	if len(res.Points) != len(want) {
		t.Fatalf("placed %d points, want %d", len(res.Points), len(want))
	}
	for i, p := range want {
		if res.Points[i] != p {
			t.Errorf("point %d = %v, want %v", i, res.Points[i], p)
		}
	}
}

// A single black pixel in a white field with full content bias must
// receive the first stipple.
func TestBlackPixelGetsFirstPoint(t *testing.T) {
	img, _ := field.New(9, 7)
	img.Fill(1)
	img.Set(6, 2, 0)

	imp, err := importance.Compute(img, importance.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.ContentBias = 1
	cfg.NoiseScale = 0
	cfg.Percentage = 0.05 // 3 points

	res, err := Place(imp, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) == 0 {
		t.Fatal("no points placed")
	}
	if got, want := res.Points[0], (geometry.PointInt{X: 6, Y: 2}); got != want {
		t.Errorf("first point %v, want %v", got, want)
	}
	if res.Intensities[0] != 1 {
		t.Errorf("first point intensity %g, want 1", res.Intensities[0])
	}
}

// The dark half of a split image must attract more than its area share of
// points, and the margin must grow with content bias.
func TestTonalBias(t *testing.T) {
	img, _ := field.New(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				img.Set(x, y, 0.3)
			} else {
				img.Set(x, y, 0.7)
			}
		}
	}
	imp, err := importance.Compute(img, importance.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	darkFraction := func(bias float64) float64 {
		cfg := DefaultConfig()
		cfg.Percentage = 0.1
		cfg.ContentBias = bias
		cfg.NoiseScale = 0

		res, err := Place(imp, cfg)
		if err != nil {
			t.Fatal(err)
		}
		dark := 0
		for _, p := range res.Points {
			if p.X < 10 {
				dark++
			}
		}
		return float64(dark) / float64(len(res.Points))
	}

	high := darkFraction(0.9)
	low := darkFraction(0.2)

	if high <= 0.5 {
		t.Errorf("dark fraction %g at bias 0.9, want > area share 0.5", high)
	}
	if high <= low {
		t.Errorf("dark fraction did not grow with bias: %g at 0.9 vs %g at 0.2", high, low)
	}
}

// For a flat image the placement degenerates to pure blue noise: the
// nearest-neighbor distances must be far more even than those of a
// uniformly random point set of the same size.
func TestBlueNoiseRegularity(t *testing.T) {
	imp := uniformMap(64, 64)
	cfg := DefaultConfig()
	cfg.Percentage = 64.0 / 4096
	cfg.ContentBias = 0
	cfg.NoiseScale = 0

	res, err := Place(imp, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) != 64 {
		t.Fatalf("placed %d points, want 64", len(res.Points))
	}

	rng := rand.New(rand.NewSource(1))
	random := make([]geometry.PointInt, len(res.Points))
	for i := range random {
		random[i] = geometry.PointInt{X: rng.Intn(64), Y: rng.Intn(64)}
	}

	placedVar := stat.Variance(nearestNeighborDistances(res.Points), nil)
	randomVar := stat.Variance(nearestNeighborDistances(random), nil)
	if placedVar >= randomVar {
		t.Errorf("nearest-neighbor variance %g not below random baseline %g", placedVar, randomVar)
	}
}

func nearestNeighborDistances(points []geometry.PointInt) []float64 {
	dists := make([]float64, len(points))
	for i, p := range points {
		best := math.Inf(1)
		for j, q := range points {
			if i == j {
				continue
			}
			if d := float64(p.DistanceSq(q)); d < best {
				best = d
			}
		}
		dists[i] = math.Sqrt(best)
	}
	return dists
}

// Full coverage selects every pixel exactly once and terminates.
func TestFullCoverage(t *testing.T) {
	imp := uniformMap(6, 5)
	cfg := DefaultConfig()
	cfg.Percentage = 1
	cfg.NoiseScale = 0

	res, err := Place(imp, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) != 30 {
		t.Fatalf("placed %d points, want 30", len(res.Points))
	}
	if res.Clamped {
		t.Error("Clamped set for an exactly-full run")
	}
	seen := make(map[geometry.PointInt]bool)
	for _, p := range res.Points {
		seen[p] = true
	}
	if len(seen) != 30 {
		t.Errorf("covered %d distinct cells, want 30", len(seen))
	}
}

func TestZeroTargetYieldsEmptyResult(t *testing.T) {
	imp := uniformMap(3, 3)
	cfg := DefaultConfig()
	cfg.Percentage = 0.05 // floor(0.45) = 0 points

	res, err := Place(imp, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) != 0 {
		t.Errorf("placed %d points, want 0", len(res.Points))
	}
}

func TestSnapshotCadence(t *testing.T) {
	imp := uniformMap(20, 20)
	cfg := DefaultConfig()
	cfg.Percentage = 0.1 // 40 points
	cfg.NoiseScale = 0
	cfg.FrameIncrement = 10

	var lengths []int
	cfg.Snapshot = func(points []geometry.PointInt) {
		lengths = append(lengths, len(points))
	}

	if _, err := Place(imp, cfg); err != nil {
		t.Fatal(err)
	}

	want := []int{10, 20, 30, 40}
	if len(lengths) != len(want) {
		t.Fatalf("got %d snapshots %v, want %v", len(lengths), lengths, want)
	}
	for i := range want {
		if lengths[i] != want[i] {
			t.Errorf("snapshot %d at length %d, want %d", i, lengths[i], want[i])
		}
	}
}

// The snapshot prefix must be a prefix of the final sequence.
func TestSnapshotIsPrefix(t *testing.T) {
	imp := uniformMap(16, 16)
	cfg := DefaultConfig().WithSeed(3)
	cfg.Percentage = 0.2
	cfg.FrameIncrement = 17

	var prefix []geometry.PointInt
	cfg.Snapshot = func(points []geometry.PointInt) {
		if len(points) == 17 {
			prefix = append([]geometry.PointInt(nil), points...)
		}
	}

	res, err := Place(imp, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(prefix) != 17 {
		t.Fatalf("captured prefix of %d points, want 17", len(prefix))
	}
	for i, p := range prefix {
		if res.Points[i] != p {
			t.Fatalf("snapshot diverges from final sequence at %d: %v vs %v", i, p, res.Points[i])
		}
	}
}
