// Package skindepth evaluates electromagnetic skin depth for a constant
// conductivity model and a Drude model over a log-uniform angular frequency
// sweep.
package skindepth

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// MaxPoints caps the sweep length accepted from callers.
	MaxPoints = 100000

	// Mu0 is the vacuum permeability in H/m.
	Mu0 = 4 * math.Pi * 1e-7
)

var (
	// ErrInvalidConstant marks material constants that are out of range, on
	// their own or over the requested sweep.
	ErrInvalidConstant = errors.New("invalid material constant")
	// ErrInvalidSweep marks a malformed frequency sweep.
	ErrInvalidSweep = errors.New("invalid frequency sweep")
)

// Constants holds the material parameters of the evaluation
type Constants struct {
	Kappa0 float64 `json:"kappa0" yaml:"kappa0"` // DC conductivity, S/m
	Gamma  float64 `json:"gamma" yaml:"gamma"`   // Drude damping frequency, rad/s
	Mu     float64 `json:"mu" yaml:"mu"`         // permeability, H/m
}

// DefaultConstants returns copper-like constants in vacuum permeability
func DefaultConstants() Constants {
	return Constants{
		Kappa0: 23.6e6,
		Gamma:  1.5e14,
		Mu:     Mu0,
	}
}

// Validate checks that every constant is finite and strictly positive
func (c Constants) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"kappa0", c.Kappa0},
		{"gamma", c.Gamma},
		{"mu", c.Mu},
	}
	for _, f := range fields {
		if !isFinite(f.value) || f.value <= 0 {
			return fmt.Errorf("%w: %s must be a positive finite number, got %g", ErrInvalidConstant, f.name, f.value)
		}
	}
	return nil
}

// Sweep describes omega[i] = 10^(a + i*(b-a)/(N-1)) for a=StartDecade, b=EndDecade, N=Points
type Sweep struct {
	StartDecade float64 `json:"start_decade" yaml:"start_decade"`
	EndDecade   float64 `json:"end_decade" yaml:"end_decade"`
	Points      int     `json:"points" yaml:"points"`
}

// DefaultSweep spans 1e9 to 1e17 rad/s with 500 points
func DefaultSweep() Sweep {
	return Sweep{StartDecade: 9, EndDecade: 17, Points: 500}
}

// Validate checks the sweep bounds
func (s Sweep) Validate() error {
	if s.Points < 2 {
		return fmt.Errorf("%w: points must be at least 2, got %d", ErrInvalidSweep, s.Points)
	}
	if s.Points > MaxPoints {
		return fmt.Errorf("%w: points must be at most %d, got %d", ErrInvalidSweep, MaxPoints, s.Points)
	}
	if !isFinite(s.StartDecade) {
		return fmt.Errorf("%w: start_decade must be finite", ErrInvalidSweep)
	}
	if !isFinite(s.EndDecade) {
		return fmt.Errorf("%w: end_decade must be finite", ErrInvalidSweep)
	}
	if s.EndDecade <= s.StartDecade {
		return fmt.Errorf("%w: end_decade (%g) must be greater than start_decade (%g)", ErrInvalidSweep, s.EndDecade, s.StartDecade)
	}
	// 10^x overflows past ~308 and underflows to zero below ~-323.
	if s.StartDecade < -300 || s.EndDecade > 300 {
		return fmt.Errorf("%w: decades must lie within [-300, 300]", ErrInvalidSweep)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Omega materializes the sweep. The caller must have validated it.
func (s Sweep) Omega() []float64 {
	exps := floats.Span(make([]float64, s.Points), s.StartDecade, s.EndDecade)
	for i, e := range exps {
		exps[i] = math.Pow(10, e)
	}
	return exps
}

// DeltaConst is the skin depth assuming constant conductivity kappa0
func DeltaConst(c Constants, omega float64) float64 {
	return math.Sqrt(2 / (c.Mu * c.Kappa0 * omega))
}

// KappaReal is the real part of the Drude conductivity at omega
func KappaReal(c Constants, omega float64) float64 {
	r := omega / c.Gamma
	return c.Kappa0 / (1 + r*r)
}

// DeltaDrude is the skin depth using the Drude conductivity at omega
func DeltaDrude(c Constants, omega float64) float64 {
	return math.Sqrt(2 / (c.Mu * KappaReal(c, omega) * omega))
}

// Curves holds the sweep and the three derived sequences, index-aligned.
type Curves struct {
	Constants  Constants `json:"constants"`
	Sweep      Sweep     `json:"sweep"`
	Omega      []float64 `json:"omega"`
	KappaReal  []float64 `json:"kappa_real"`
	DeltaConst []float64 `json:"delta_const"`
	DeltaDrude []float64 `json:"delta_drude"`
}

// Sample is one row of Curves
type Sample struct {
	Omega      float64 `json:"omega" yaml:"omega"`
	KappaReal  float64 `json:"kappa_real" yaml:"kappa_real"`
	DeltaConst float64 `json:"delta_const" yaml:"delta_const"`
	DeltaDrude float64 `json:"delta_drude" yaml:"delta_drude"`
}

// Evaluate validates the inputs and computes every curve over the sweep
func Evaluate(c Constants, s Sweep) (*Curves, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	omega := s.Omega()
	n := len(omega)
	curves := &Curves{
		Constants:  c,
		Sweep:      s,
		Omega:      omega,
		KappaReal:  make([]float64, n),
		DeltaConst: make([]float64, n),
		DeltaDrude: make([]float64, n),
	}

	for i, w := range omega {
		kr := KappaReal(c, w)
		dc := DeltaConst(c, w)
		dd := math.Sqrt(2 / (c.Mu * kr * w))
		if err := checkSample(w, kr, dc, dd); err != nil {
			return nil, err
		}
		curves.KappaReal[i] = kr
		curves.DeltaConst[i] = dc
		curves.DeltaDrude[i] = dd
	}

	return curves, nil
}

// checkSample rejects samples that overflowed or underflowed float64
func checkSample(omega, kappaReal, deltaConst, deltaDrude float64) error {
	values := []struct {
		name  string
		value float64
	}{
		{"kappa_real", kappaReal},
		{"delta_const", deltaConst},
		{"delta_drude", deltaDrude},
	}
	for _, v := range values {
		if !isFinite(v.value) || v.value <= 0 {
			return fmt.Errorf("%w: %s is %g at omega=%g, constants are out of range for this sweep",
				ErrInvalidConstant, v.name, v.value, omega)
		}
	}
	return nil
}

// Len returns the number of samples
func (c *Curves) Len() int {
	return len(c.Omega)
}

// At returns sample i
func (c *Curves) At(i int) Sample {
	return Sample{
		Omega:      c.Omega[i],
		KappaReal:  c.KappaReal[i],
		DeltaConst: c.DeltaConst[i],
		DeltaDrude: c.DeltaDrude[i],
	}
}

// Crossover returns the first sweep frequency at which delta_drude/delta_const
// reaches ratio. ok is false when the ratio is never reached.
func (c *Curves) Crossover(ratio float64) (omega float64, ok bool) {
	for i := range c.Omega {
		if c.DeltaDrude[i]/c.DeltaConst[i] >= ratio {
			return c.Omega[i], true
		}
	}
	return 0, false
}
