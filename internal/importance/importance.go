// Package importance derives a per-pixel stipple density weighting from a
// normalized grayscale image.
package importance

import (
	"fmt"
	"math"

	"stipplegen/internal/field"
)

// Params configures the importance curve. All constants are exposed because
// the curve shape is a tuning surface, not a fixed formula.
type Params struct {
	// ExtremeDownweight is the floor the weight falls to at pure black or
	// pure white. Near-saturated regions would otherwise clump.
	ExtremeDownweight float64

	// DarkThreshold and LightThreshold bound the brightness band that keeps
	// full weight; outside it the weight rolls off smoothly.
	DarkThreshold  float64
	LightThreshold float64

	// DarkSigma and LightSigma set how fast the roll-off reaches the floor.
	DarkSigma  float64
	LightSigma float64

	// Mid-tone boost: a Gaussian bump multiplying importance around
	// MidToneCenter, peaking at MidToneBoost.
	MidToneCenter float64
	MidToneSigma  float64
	MidToneBoost  float64
}

// DefaultParams returns the importance curve defaults.
// Tuned for portrait-like inputs where mid-tones carry the detail.
func DefaultParams() Params {
	return Params{
		ExtremeDownweight: 0.3,
		DarkThreshold:     0.2,
		LightThreshold:    0.8,
		DarkSigma:         0.15,
		LightSigma:        0.15,
		MidToneCenter:     0.65,
		MidToneSigma:      0.2,
		MidToneBoost:      1.5,
	}
}

// WithThresholds returns a copy of params with custom dark/light thresholds.
func (p Params) WithThresholds(dark, light float64) Params {
	p.DarkThreshold = dark
	p.LightThreshold = light
	return p
}

// WithMidTone returns a copy of params with a custom mid-tone bump.
func (p Params) WithMidTone(center, sigma, boost float64) Params {
	p.MidToneCenter = center
	p.MidToneSigma = sigma
	p.MidToneBoost = boost
	return p
}

// Validate checks the curve parameters.
func (p Params) Validate() error {
	if p.ExtremeDownweight < 0 || p.ExtremeDownweight > 1 {
		return fmt.Errorf("extreme downweight %g outside [0,1]", p.ExtremeDownweight)
	}
	if p.DarkThreshold < 0 || p.LightThreshold > 1 || p.DarkThreshold >= p.LightThreshold {
		return fmt.Errorf("thresholds %g/%g must satisfy 0 <= dark < light <= 1",
			p.DarkThreshold, p.LightThreshold)
	}
	if p.DarkSigma <= 0 || p.LightSigma <= 0 || p.MidToneSigma <= 0 {
		return fmt.Errorf("sigmas must be positive")
	}
	if p.MidToneBoost < 1 {
		return fmt.Errorf("mid-tone boost %g must be >= 1", p.MidToneBoost)
	}
	return nil
}

// Compute builds the importance map for a grayscale image with values in
// [0, 1]. The result has the same dimensions, lies in [0, 1], and is a pure
// function of the input: brightness is inverted so dark regions attract
// dots, tonal extremes are smoothly down-weighted, mid-tones are boosted,
// and the field is min-max normalized. A tonally flat image normalizes to
// the all-ones map, which downstream placement treats as uniform coverage.
func Compute(img *field.Field, p Params) (*field.Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out, err := field.New(img.W, img.H)
	if err != nil {
		return nil, err
	}

	for i, b := range img.Data {
		inverted := 1 - b

		// Roll off toward the floor below the dark threshold and above
		// the light threshold; full weight in between. The min of the two
		// sides keeps the corners conservative.
		darkW := 1.0
		if b < p.DarkThreshold {
			d := (p.DarkThreshold - b) / p.DarkSigma
			darkW = p.ExtremeDownweight + (1-p.ExtremeDownweight)*math.Exp(-0.5*d*d)
		}
		lightW := 1.0
		if b > p.LightThreshold {
			d := (b - p.LightThreshold) / p.LightSigma
			lightW = p.ExtremeDownweight + (1-p.ExtremeDownweight)*math.Exp(-0.5*d*d)
		}
		w := math.Min(darkW, lightW)

		d := (b - p.MidToneCenter) / p.MidToneSigma
		boost := 1 + (p.MidToneBoost-1)*math.Exp(-0.5*d*d)

		out.Data[i] = inverted * w * boost
	}

	out.Normalize()
	return out, nil
}
